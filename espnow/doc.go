// Package espnow adapts a connectionless, MAC-addressed broadcast radio
// (shaped after ESP-NOW) into a core.Transport[core.Channel]: a lightweight
// ping/pong rendezvous discovers peers and opens one Channel per peer MAC,
// with the higher MAC winning the Noise initiator role.
package espnow
