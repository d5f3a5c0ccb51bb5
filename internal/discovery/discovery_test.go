package discovery

import (
	"net"
	"testing"

	"github.com/hashicorp/mdns"
)

func TestNewService(t *testing.T) {
	ips := []net.IP{net.IPv4(192, 168, 1, 20)}
	service, err := NewService("studio", "studio.local.", 8080, ips)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	if service.Instance != "studio" || service.Service != ServiceType || service.Port != 8080 {
		t.Errorf("service = %+v", service)
	}
	if service.Domain != "local." {
		t.Errorf("Domain = %q, want local.", service.Domain)
	}
	if len(service.TXT) != 2 || service.TXT[0] != "app=rysunek" {
		t.Errorf("TXT = %v", service.TXT)
	}
}

func TestNewServiceRejectsBadHost(t *testing.T) {
	if _, err := NewService("studio", "not-qualified", 8080, []net.IP{net.IPv4(10, 0, 0, 1)}); err == nil {
		t.Error("NewService() accepted a host name without a trailing dot")
	}
}

func TestToServer(t *testing.T) {
	tests := []struct {
		name  string
		entry *mdns.ServiceEntry
		want  Server
		ok    bool
	}{
		{"nil", nil, Server{}, false},
		{"no ipv4", &mdns.ServiceEntry{Name: "a", Port: 8080}, Server{}, false},
		{"no port", &mdns.ServiceEntry{Name: "a", AddrV4: net.IPv4(10, 0, 0, 2)}, Server{}, false},
		{
			"complete",
			&mdns.ServiceEntry{Name: "studio._rysunek._tcp.local.", AddrV4: net.IPv4(10, 0, 0, 2), Port: 8080},
			Server{Instance: "studio._rysunek._tcp.local.", Addr: "10.0.0.2:8080"},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toServer(tt.entry)
			if got != tt.want || ok != tt.ok {
				t.Errorf("toServer() = %+v, %v, want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
