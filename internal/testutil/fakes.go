package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"

	"resume-builder/internal/model"
	"resume-builder/internal/usecase"
	"resume-builder/pkg/parser"
	"resume-builder/pkg/payment"
)

// Gateway issues sequential order ids and checks signatures with the real
// HMAC scheme.
type Gateway struct {
	Secret string
	Err    error

	mu sync.Mutex
	n  int
}

func NewGateway(secret string) *Gateway { return &Gateway{Secret: secret} }

func (g *Gateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	if g.Err != nil {
		return "", g.Err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("order_test_%d", g.n), nil
}

func (g *Gateway) VerifySignature(orderID, paymentID, signature string) bool {
	return payment.VerifySignature(g.Secret, orderID, paymentID, signature)
}

func (g *Gateway) KeyID() string { return "rzp_test_key" }

// Sign produces the signature the gateway's checkout would hand the client.
func (g *Gateway) Sign(orderID, paymentID string) string {
	return payment.Sign(g.Secret, orderID, paymentID)
}

type Renderer struct {
	PDF []byte
	Err error

	mu    sync.Mutex
	HTMLs []string
	// Before runs before the PDF is returned; tests use it to change state
	// mid-export.
	Before func()
}

func NewRenderer() *Renderer {
	return &Renderer{PDF: []byte("%PDF-1.4\n%test\n")}
}

func (r *Renderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	r.mu.Lock()
	r.HTMLs = append(r.HTMLs, html)
	before := r.Before
	r.mu.Unlock()
	if before != nil {
		before()
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return r.PDF, nil
}

func (r *Renderer) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.HTMLs)
}

// Enhancer marks each section it touches so tests can see it ran.
type Enhancer struct {
	Err      error
	Sections []model.Section
}

func (e *Enhancer) Enhance(ctx context.Context, section model.Section, d *model.ResumeData) error {
	if e.Err != nil {
		return e.Err
	}
	e.Sections = append(e.Sections, section)
	switch section {
	case model.SectionSummary:
		d.ProfessionalSummary = "Enhanced: " + d.ProfessionalSummary
	case model.SectionExperience:
		for i := range d.Experience {
			d.Experience[i].Description = "Enhanced: " + d.Experience[i].Description
		}
	case model.SectionProjects:
		for i := range d.Projects {
			d.Projects[i].Description = "Enhanced: " + d.Projects[i].Description
		}
	}
	return nil
}

type Parser struct {
	Result *parser.Result
	Err    error
	Docs   []parser.Document
}

func (p *Parser) Parse(ctx context.Context, doc parser.Document) (*parser.Result, error) {
	p.Docs = append(p.Docs, doc)
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Result, nil
}

type ObjectStore struct {
	Err     error
	Objects map[string][]byte
}

func NewObjectStore() *ObjectStore { return &ObjectStore{Objects: map[string][]byte{}} }

func (s *ObjectStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.Objects[key] = b
	return "https://files.test/" + key, nil
}

type Mailer struct {
	Err      error
	Receipts []usecase.Receipt
}

func (m *Mailer) SendReceipt(ctx context.Context, r usecase.Receipt) error {
	m.Receipts = append(m.Receipts, r)
	return m.Err
}
