package checker

import (
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"

	"github.com/rhiyo/nsmon/internal/models"
)

const queryTimeout = 5 * time.Second

// QueryFunc performs one DNS exchange against addr (host:port). Tests swap
// this out; production code uses the package default.
type QueryFunc func(m *dns.Msg, addr string) (*dns.Msg, error)

func exchange(m *dns.Msg, addr string) (*dns.Msg, error) {
	client := &dns.Client{Timeout: queryTimeout}
	resp, _, err := client.Exchange(m, addr)
	return resp, err
}

// RunDNSCheck resolves the check's record as an A record against the check's
// server and compares the first answer to the expected IP. Transport failures
// are retried up to retries additional attempts; a response with no usable
// answer or a mismatched address fails immediately. The retry budget is
// consumed across the whole check, never reset.
func RunDNSCheck(check models.Check, retries int, query QueryFunc) models.CheckResult {
	if query == nil {
		query = exchange
	}

	start := time.Now()
	addr := net.JoinHostPort(check.Server.Address.String(), "53")

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(check.Record), dns.TypeA)

	result := models.CheckResult{Check: check}

	var resp *dns.Msg
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		result.Attempts = attempt + 1
		resp, err = query(m, addr)
		if err == nil && resp != nil {
			break
		}
	}
	result.DurationMS = int(time.Since(start).Milliseconds())

	if err != nil || resp == nil {
		result.Outcome = models.OutcomeFail
		result.Failure = models.FailureUnreachable
		return result
	}

	if len(resp.Answer) == 0 {
		result.Outcome = models.OutcomeFail
		result.Failure = models.FailureNoAnswer
		return result
	}

	a, ok := resp.Answer[0].(*dns.A)
	if !ok {
		result.Outcome = models.OutcomeFail
		result.Failure = models.FailureNoAnswer
		return result
	}

	actual, ok := netip.AddrFromSlice(a.A)
	if !ok {
		result.Outcome = models.OutcomeFail
		result.Failure = models.FailureNoAnswer
		return result
	}
	actual = actual.Unmap()

	if actual != check.ExpectedIP {
		result.Outcome = models.OutcomeFail
		result.Failure = models.FailureMismatch
		result.ActualIP = actual
		return result
	}

	result.Outcome = models.OutcomePass
	return result
}
