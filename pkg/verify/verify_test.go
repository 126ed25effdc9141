package verify

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rpcssl/rpcssl-go/internal/pki"
	"github.com/rpcssl/rpcssl-go/pkg/sslconn"
)

func testBundle(t *testing.T) *pki.Bundle {
	t.Helper()
	b, err := pki.Generate(pki.DefaultOptions())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return b
}

func serverChain(b *pki.Bundle) []*x509.Certificate {
	return []*x509.Certificate{b.Server.Leaf, b.CA}
}

func request(chain []*x509.Certificate, depth int) *sslconn.VerifyRequest {
	return &sslconn.VerifyRequest{Chain: chain, Depth: depth, Preverified: true}
}

func TestPoolCheck(t *testing.T) {
	b := testBundle(t)
	other := testBundle(t)

	tests := []struct {
		name    string
		pool    *Pool
		req     *sslconn.VerifyRequest
		wantErr error
	}{
		{
			name: "leaf trusted",
			pool: NewPool(b.CAPool),
			req:  request(serverChain(b), 0),
		},
		{
			name: "root depth only checks validity",
			pool: NewPool(other.CAPool),
			req:  request(serverChain(b), 1),
		},
		{
			name:    "leaf from unknown CA",
			pool:    NewPool(other.CAPool),
			req:     request(serverChain(b), 0),
			wantErr: ErrInvalidChain,
		},
		{
			name:    "empty chain",
			pool:    NewPool(b.CAPool),
			req:     request(nil, 0),
			wantErr: ErrNoCertificate,
		},
		{
			name:    "not preverified",
			pool:    &Pool{Roots: b.CAPool, RequirePreverified: true},
			req:     &sslconn.VerifyRequest{Chain: serverChain(b)},
			wantErr: ErrNotPreverified,
		},
		{
			name: "client key usage rejected for server leaf",
			pool: &Pool{
				Roots:     b.CAPool,
				KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
			},
			req:     request(serverChain(b), 0),
			wantErr: ErrInvalidChain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pool.Check(tt.req)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Check() error = %v", err)
				}
				if !tt.pool.Verify(tt.req) {
					t.Error("Verify() = false, want true")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Check() error = %v, want %v", err, tt.wantErr)
			}
			if tt.pool.Verify(tt.req) {
				t.Error("Verify() = true, want false")
			}
		})
	}
}

func TestPoolValidityAtEveryDepth(t *testing.T) {
	b := testBundle(t)
	clk := clock.NewMock()

	pool := NewPool(b.CAPool)
	pool.Clock = clk

	clk.Set(b.CA.NotBefore.Add(-time.Hour))
	if err := pool.Check(request(serverChain(b), 1)); !errors.Is(err, ErrCertNotYetValid) {
		t.Errorf("before validity: error = %v, want %v", err, ErrCertNotYetValid)
	}

	clk.Set(b.CA.NotAfter.Add(time.Hour))
	if err := pool.Check(request(serverChain(b), 1)); !errors.Is(err, ErrCertExpired) {
		t.Errorf("after validity: error = %v, want %v", err, ErrCertExpired)
	}

	clk.Set(b.CA.NotBefore.Add(time.Hour))
	if err := pool.Check(request(serverChain(b), 0)); err != nil {
		t.Errorf("within validity: error = %v", err)
	}
}

func TestNames(t *testing.T) {
	wildcard := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "node"},
		DNSNames:     []string{"*.rpc.example"},
	}
	cnOnly := &x509.Certificate{Subject: pkix.Name{CommonName: "Billing"}}

	tests := []struct {
		name  string
		names []string
		chain []*x509.Certificate
		depth int
		want  bool
	}{
		{"common name", []string{"billing"}, []*x509.Certificate{cnOnly}, 0, true},
		{"wildcard SAN", []string{"a.rpc.example"}, []*x509.Certificate{wildcard}, 0, true},
		{"no match", []string{"other"}, []*x509.Certificate{wildcard}, 0, false},
		{"second name matches", []string{"other", "node"}, []*x509.Certificate{wildcard}, 0, true},
		{"non-leaf ignored", []string{"other"}, []*x509.Certificate{cnOnly, wildcard}, 1, true},
		{"empty chain", []string{"node"}, nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewNames(tt.names...)
			if got := v.Verify(request(tt.chain, tt.depth)); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}

	err := NewNames("other").Check(request([]*x509.Certificate{cnOnly}, 0))
	if !errors.Is(err, ErrNameMismatch) {
		t.Errorf("Check() error = %v, want %v", err, ErrNameMismatch)
	}
}

func TestAll(t *testing.T) {
	calls := 0
	counting := sslconn.VerifierFunc(func(*sslconn.VerifyRequest) bool {
		calls++
		return true
	})
	req := request(nil, 0)

	if !All().Verify(req) {
		t.Error("empty All() rejected")
	}
	if !All(AcceptAll, counting, nil).Verify(req) {
		t.Error("All(accepting...) rejected")
	}
	if All(AcceptAll, RejectAll, counting).Verify(req) {
		t.Error("All with RejectAll accepted")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (stop at first rejection)", calls)
	}
}

func TestFunc(t *testing.T) {
	errNope := errors.New("nope")
	f := Func(func(req *sslconn.VerifyRequest) error {
		if req.Depth > 0 {
			return errNope
		}
		return nil
	})

	if !f.Verify(request(nil, 0)) {
		t.Error("Verify(depth 0) = false")
	}
	if f.Verify(request(nil, 1)) {
		t.Error("Verify(depth 1) = true")
	}
	if err := f.Check(request(nil, 1)); !errors.Is(err, errNope) {
		t.Errorf("Check() error = %v", err)
	}
}
