// Package discovery advertises a drawing server on the local network over
// mDNS and finds the ones other machines advertise.
package discovery

import (
	"fmt"
	"net"
	"time"

	"github.com/hashicorp/mdns"
)

const ServiceType = "_rysunek._tcp"

// Server is a discovered drawing server.
type Server struct {
	Instance string
	Addr     string
}

// NewService describes instance on port. An empty host means the OS
// hostname and nil ips means the addresses that hostname resolves to.
func NewService(instance, host string, port int, ips []net.IP) (*mdns.MDNSService, error) {
	service, err := mdns.NewMDNSService(
		instance,
		ServiceType,
		"",
		host,
		port,
		ips,
		[]string{"app=rysunek", "path=/ws/drawing"},
	)
	if err != nil {
		return nil, fmt.Errorf("create mdns service: %w", err)
	}
	return service, nil
}

// Advertise answers mDNS queries for instance until the returned server is
// shut down.
func Advertise(instance string, port int) (*mdns.Server, error) {
	service, err := NewService(instance, "", port, nil)
	if err != nil {
		return nil, err
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mdns server: %w", err)
	}
	return server, nil
}

// Browse queries the network for timeout and returns every server that
// answered with an IPv4 address.
func Browse(timeout time.Duration) ([]Server, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan []Server, 1)
	go func() {
		var servers []Server
		for e := range entries {
			if entry, ok := toServer(e); ok {
				servers = append(servers, entry)
			}
		}
		found <- servers
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	servers := <-found
	if err != nil {
		return servers, fmt.Errorf("mdns query: %w", err)
	}
	return servers, nil
}

func toServer(e *mdns.ServiceEntry) (Server, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return Server{}, false
	}
	return Server{
		Instance: e.Name,
		Addr:     net.JoinHostPort(e.AddrV4.String(), fmt.Sprint(e.Port)),
	}, true
}
