package console

import (
	"context"
	"sync"

	"github.com/nyacdn/cdnctl/internal/api"
)

// CertFormSession edits certificates. On top of the generic guard it carries
// the manual/automatic mode toggle, which lives outside the generic input
// shape and decides which half of the fields is submitted.
type CertFormSession struct {
	*FormSession[api.CertInput]

	mu       sync.Mutex
	manual   bool
	extended bool
}

func NewCertFormSession(client *api.Client, notify Notifier, owner Invalidator) *CertFormSession {
	s := &CertFormSession{}

	hooks := FormHooks[api.CertInput]{
		Fetch: func(ctx context.Context, id int64) (api.CertInput, error) {
			crt, err := client.GetCert(ctx, id)
			if err != nil {
				return api.CertInput{}, err
			}
			return crt.CertInput, nil
		},
		Create: func(ctx context.Context, input api.CertInput) (SubmitResult, error) {
			crt, err := client.CreateCert(ctx, input)
			if err != nil {
				return SubmitResult{}, err
			}
			return SubmitResult{ID: crt.ID, Label: crt.Name}, nil
		},
		Update: func(ctx context.Context, id int64, input api.CertInput) (SubmitResult, error) {
			crt, err := client.UpdateCertInfo(ctx, id, input)
			if err != nil {
				return SubmitResult{}, err
			}
			return SubmitResult{ID: crt.ID, Label: crt.Name}, nil
		},
	}

	s.FormSession = NewFormSession("cert", hooks, notify, owner)
	s.FormSession.onFetched = func(input api.CertInput) {
		s.mu.Lock()
		s.manual = input.IsManualMode
		s.extended = deref(input.IntermediateCertificate) != "" || deref(input.CSR) != ""
		s.mu.Unlock()
	}
	s.FormSession.transform = s.serialize
	return s
}

// Open resets the mode toggles along with the generic session state.
func (s *CertFormSession) Open(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.manual = false
	s.extended = false
	s.mu.Unlock()
	return s.FormSession.Open(ctx, id)
}

func (s *CertFormSession) ManualMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manual
}

// SetManualMode flips between automatic issuance and manually supplied
// certificate material. Rejected while the form is locked.
func (s *CertFormSession) SetManualMode(manual bool) error {
	if s.State() == EditLocked {
		return ErrFormLocked
	}
	s.mu.Lock()
	s.manual = manual
	s.mu.Unlock()
	return nil
}

func (s *CertFormSession) ExtendedInfo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extended
}

func (s *CertFormSession) SetExtendedInfo(extended bool) error {
	if s.State() == EditLocked {
		return ErrFormLocked
	}
	s.mu.Lock()
	s.extended = extended
	s.mu.Unlock()
	return nil
}

// serialize applies the mode split: manual mode keeps the certificate
// material and clears the issuance fields, automatic mode the reverse.
// Domains is cleared to an empty array, never null.
func (s *CertFormSession) serialize(input api.CertInput) api.CertInput {
	s.mu.Lock()
	manual := s.manual
	s.mu.Unlock()

	out := api.CertInput{
		Name:         input.Name,
		IsManualMode: manual,
	}
	if manual {
		out.Domains = []string{}
		out.Provider = nil
		out.Certificate = input.Certificate
		out.PrivateKey = input.PrivateKey
		out.IntermediateCertificate = input.IntermediateCertificate
		out.CSR = input.CSR
	} else {
		out.Domains = input.Domains
		if out.Domains == nil {
			out.Domains = []string{}
		}
		out.Provider = input.Provider
		out.Certificate = nil
		out.PrivateKey = nil
		out.IntermediateCertificate = nil
		out.CSR = nil
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
