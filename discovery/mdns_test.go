package discovery

import (
	"io"
	"log/slog"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdvertiser(t *testing.T) *Advertiser {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	adv, err := NewAdvertiser("dev-1", 12346, log)
	require.NoError(t, err)
	return adv
}

func TestAdvertiserNames(t *testing.T) {
	adv := newTestAdvertiser(t)
	assert.Equal(t, "dev-1._device-agent._tcp.local.", adv.InstanceName())
	assert.Equal(t, "dev-1.local.", adv.HostName())

	// Dots in instance labels would change the DNS name structure.
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dotted, err := NewAdvertiser("dev.one", 12346, log)
	require.NoError(t, err)
	assert.Equal(t, "dev-one._device-agent._tcp.local.", dotted.InstanceName())

	_, err = NewAdvertiser("", 12346, log)
	assert.Error(t, err)
}

func TestServiceEnumerationQuery(t *testing.T) {
	adv := newTestAdvertiser(t)

	query := new(dns.Msg)
	query.SetQuestion(ServiceType, dns.TypePTR)

	response := adv.respond(query)
	require.NotNil(t, response)
	assert.True(t, response.Authoritative)
	assert.Empty(t, response.Question)

	require.Len(t, response.Answer, 1)
	ptr, ok := response.Answer[0].(*dns.PTR)
	require.True(t, ok)
	assert.Equal(t, adv.InstanceName(), ptr.Ptr)

	// SRV and TXT ride along as additionals.
	var srv *dns.SRV
	for _, rr := range response.Extra {
		if s, ok := rr.(*dns.SRV); ok {
			srv = s
		}
	}
	require.NotNil(t, srv)
	assert.Equal(t, uint16(12346), srv.Port)
	assert.Equal(t, adv.HostName(), srv.Target)
}

func TestInstanceQuery(t *testing.T) {
	adv := newTestAdvertiser(t)

	query := new(dns.Msg)
	query.SetQuestion(adv.InstanceName(), dns.TypeSRV)

	response := adv.respond(query)
	require.NotNil(t, response)
	require.NotEmpty(t, response.Answer)

	srv, ok := response.Answer[0].(*dns.SRV)
	require.True(t, ok)
	assert.Equal(t, uint16(12346), srv.Port)
}

func TestUnrelatedQueryIsIgnored(t *testing.T) {
	adv := newTestAdvertiser(t)

	query := new(dns.Msg)
	query.SetQuestion("_printer._tcp.local.", dns.TypePTR)
	assert.Nil(t, adv.respond(query))

	// Responses must not be answered either.
	reply := new(dns.Msg)
	reply.SetQuestion(ServiceType, dns.TypePTR)
	reply.Response = true
	assert.Nil(t, adv.respond(reply))
}
