// Package discovery announces the device on the local network over
// mDNS so the pairing flow and local clients can find it without
// preconfigured addressing.
//
// The advertiser is a minimal responder: it answers PTR queries for
// the service type, SRV/TXT queries for the instance, and A queries
// for the instance host name. It does not implement the full probe and
// cache-coherency cycle; the device is the only owner of its instance
// name.
package discovery

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
	"github.com/vexlabs/device-agent/interfaces"
)

const (
	// ServiceType is the advertised DNS-SD service type.
	ServiceType = "_device-agent._tcp.local."

	mdnsGroup = "224.0.0.251:5353"

	recordTTL = 120 // seconds, conventional mDNS TTL
)

// Compile-time interface check.
var _ interfaces.Advertiser = (*Advertiser)(nil)

// Advertiser answers local discovery queries for one service instance.
type Advertiser struct {
	instance string // instance label, e.g. the device id
	port     uint16
	log      *slog.Logger

	conn      *net.UDPConn
	closed    chan struct{}
	closeOnce sync.Once
}

// NewAdvertiser creates an advertiser for the given instance label and
// service port.
func NewAdvertiser(instance string, port uint16, log *slog.Logger) (*Advertiser, error) {
	if instance == "" {
		return nil, fmt.Errorf("advertiser requires an instance name")
	}
	// Instance labels become DNS labels; dots would change the name
	// structure.
	instance = strings.ReplaceAll(instance, ".", "-")

	return &Advertiser{
		instance: instance,
		port:     port,
		log:      log,
		closed:   make(chan struct{}),
	}, nil
}

// InstanceName returns the full service instance name.
func (a *Advertiser) InstanceName() string {
	return a.instance + "." + ServiceType
}

// HostName returns the advertised host name the SRV record targets.
func (a *Advertiser) HostName() string {
	return a.instance + ".local."
}

// Start joins the mDNS multicast group and begins answering queries in
// the background.
func (a *Advertiser) Start() error {
	group, err := net.ResolveUDPAddr("udp4", mdnsGroup)
	if err != nil {
		return fmt.Errorf("failed to resolve mDNS group: %w", err)
	}

	conn, err := net.ListenMulticastUDP("udp4", nil, group)
	if err != nil {
		return fmt.Errorf("failed to join mDNS group: %w", err)
	}
	a.conn = conn

	a.log.Info("Advertising service on local network",
		slog.String("instance", a.InstanceName()),
		slog.Int("port", int(a.port)))

	go a.serve(group)
	return nil
}

// Shutdown stops the responder.
func (a *Advertiser) Shutdown() error {
	a.closeOnce.Do(func() { close(a.closed) })
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}

func (a *Advertiser) serve(group *net.UDPAddr) {
	buf := make([]byte, 65536)
	for {
		n, _, err := a.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-a.closed:
				return
			default:
			}
			a.log.Warn("mDNS read failed", "err", err)
			time.Sleep(time.Second)
			continue
		}

		var query dns.Msg
		if err := query.Unpack(buf[:n]); err != nil {
			continue
		}

		response := a.respond(&query)
		if response == nil {
			continue
		}

		packed, err := response.Pack()
		if err != nil {
			a.log.Warn("Failed to pack mDNS response", "err", err)
			continue
		}
		// Responses go back to the multicast group per RFC 6762 §6.
		if _, err := a.conn.WriteToUDP(packed, group); err != nil {
			a.log.Warn("Failed to send mDNS response", "err", err)
		}
	}
}

// respond builds the answer for a query, or nil when the message is
// not a query or no question concerns this instance.
func (a *Advertiser) respond(query *dns.Msg) *dns.Msg {
	if query.Response {
		return nil
	}

	var answers, extra []dns.RR
	for _, q := range query.Question {
		ans, add := a.answers(q)
		answers = append(answers, ans...)
		extra = append(extra, add...)
	}
	if len(answers) == 0 {
		return nil
	}

	response := new(dns.Msg)
	response.SetReply(query)
	response.Authoritative = true
	// mDNS responses carry no question section and id 0.
	response.Id = 0
	response.Question = nil
	response.Answer = answers
	response.Extra = extra
	return response
}

func (a *Advertiser) answers(q dns.Question) (answers, extra []dns.RR) {
	name := strings.ToLower(q.Name)
	switch {
	case name == strings.ToLower(ServiceType) && (q.Qtype == dns.TypePTR || q.Qtype == dns.TypeANY):
		answers = append(answers, a.ptrRecord())
		extra = append(extra, a.srvRecord(), a.txtRecord())
		extra = append(extra, a.addressRecords()...)

	case name == strings.ToLower(a.InstanceName()) && (q.Qtype == dns.TypeSRV || q.Qtype == dns.TypeANY):
		answers = append(answers, a.srvRecord(), a.txtRecord())
		extra = append(extra, a.addressRecords()...)

	case name == strings.ToLower(a.HostName()) && (q.Qtype == dns.TypeA || q.Qtype == dns.TypeANY):
		answers = append(answers, a.addressRecords()...)
	}
	return answers, extra
}

func (a *Advertiser) header(name string, rrtype uint16) dns.RR_Header {
	return dns.RR_Header{
		Name:   name,
		Rrtype: rrtype,
		Class:  dns.ClassINET,
		Ttl:    recordTTL,
	}
}

func (a *Advertiser) ptrRecord() dns.RR {
	return &dns.PTR{
		Hdr: a.header(ServiceType, dns.TypePTR),
		Ptr: a.InstanceName(),
	}
}

func (a *Advertiser) srvRecord() dns.RR {
	return &dns.SRV{
		Hdr:    a.header(a.InstanceName(), dns.TypeSRV),
		Port:   a.port,
		Target: a.HostName(),
	}
}

func (a *Advertiser) txtRecord() dns.RR {
	return &dns.TXT{
		Hdr: a.header(a.InstanceName(), dns.TypeTXT),
		Txt: []string{"proto=secure-channel"},
	}
}

// addressRecords returns A records for every non-loopback IPv4 address
// on the host.
func (a *Advertiser) addressRecords() []dns.RR {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		a.log.Warn("Failed to enumerate addresses", "err", err)
		return nil
	}

	var records []dns.RR
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		ip4 := ipNet.IP.To4()
		if ip4 == nil {
			continue
		}
		records = append(records, &dns.A{
			Hdr: a.header(a.HostName(), dns.TypeA),
			A:   ip4,
		})
	}
	return records
}
