package api

// Entity inputs below map one-to-one onto request bodies; fields the backend
// computes (ids, timestamps, secrets) live only on the full entity structs.

// UserInput is the only attribute editable through the generic user form.
// Username, password and role have their own endpoints.
type UserInput struct {
	Name string `json:"name" validate:"required"`
}

// UserCreate is the full payload accepted by user creation.
type UserCreate struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// InstanceInput is the editable shape of an edge instance. Site and
// additional-file references are by id.
type InstanceInput struct {
	Name              string  `json:"name" validate:"required"`
	PreConfig         string  `json:"pre_config"`
	IsManualMode      bool    `json:"is_manual_mode"`
	SiteIDs           []int64 `json:"site_ids"`
	AdditionalFileIDs []int64 `json:"additional_file_ids"`
}

type Instance struct {
	InstanceInput
	ID       int64 `json:"id"`
	LastSeen int64 `json:"last_seen"`
}

// InstanceWithToken is returned only by create and rotate-token. The token is
// never present in any later info or list response.
type InstanceWithToken struct {
	Instance
	Token string `json:"token"`
}

// SiteInput references exactly one template (required) and at most one cert.
// TemplateValues supply the template's declared variables positionally.
type SiteInput struct {
	Name           string   `json:"name" validate:"required"`
	Origin         string   `json:"origin" validate:"required"`
	CertID         *int64   `json:"cert_id"`
	TemplateID     int64    `json:"template_id" validate:"required"`
	TemplateValues []string `json:"template_values"`
}

type Site struct {
	SiteInput
	ID int64 `json:"id"`
}

// CertInput covers both certificate modes. In manual mode the certificate
// material fields are set and Domains/Provider are cleared; in automatic mode
// the reverse. Provider is an opaque payload defined by the backend.
type CertInput struct {
	Name         string   `json:"name" validate:"required"`
	IsManualMode bool     `json:"is_manual_mode"`
	Domains      []string `json:"domains"`
	Provider     *string  `json:"provider"`

	Certificate             *string `json:"certificate"`
	PrivateKey              *string `json:"private_key"`
	IntermediateCertificate *string `json:"intermediate_certificate"`
	CSR                     *string `json:"csr"`
}

type Cert struct {
	CertInput
	ID        int64 `json:"id"`
	ExpiresAt int64 `json:"expires_at"`
}

// TemplateInput declares named variable slots that sites fill positionally.
type TemplateInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Content     string   `json:"content" validate:"required"`
	Variables   []string `json:"variables"`
}

type Template struct {
	TemplateInput
	ID int64 `json:"id"`
}

// AdditionalFileInfo is the JSON-updatable part of an additional file.
// Filename is optional; when empty the backend keeps its previous value.
type AdditionalFileInfo struct {
	Name     string `json:"name" validate:"required"`
	Filename string `json:"filename,omitempty"`
}

// AdditionalFileInput adds the file content, sent as multipart on create.
// Content nil means no content part is appended.
type AdditionalFileInput struct {
	AdditionalFileInfo
	Content []byte `json:"-"`
}

type AdditionalFile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Filename string `json:"filename,omitempty"`
}
