package dto

import "github.com/plugilode/corpintel/internal/entity"

// RecordFilter contains query parameters for record listing endpoints.
type RecordFilter struct {
	Q        string
	Category string
	Country  string
	City     string
	Page     int
	PerPage  int
}

// CreateRecordRequest captures the add-company payload. Empty optional fields
// are defaulted by the service; the id is always generated server-side.
type CreateRecordRequest struct {
	Name         string                 `json:"name"`
	Subject      string                 `json:"subject"`
	Description  string                 `json:"description"`
	CEO          string                 `json:"ceo"`
	Address      string                 `json:"address"`
	ZipCode      string                 `json:"zipCode"`
	City         string                 `json:"city"`
	Country      string                 `json:"country"`
	Logo         string                 `json:"logo"`
	Categories   []string               `json:"category"`
	Tags         []entity.Tag           `json:"tags"`
	SocialMedia  entity.SocialMedia     `json:"socialMedia"`
	Languages    []string               `json:"language"`
	PreviousCEOs []string               `json:"previousCEOs"`
	TaxID        string                 `json:"taxId"`
	Metrics      *entity.CompanyMetrics `json:"metrics"`
}

// RecordPatch captures partial edit-company updates. Nil fields are left
// untouched; patched fields that carry a verification status are reset to
// unverified pending an explicit re-verify.
type RecordPatch struct {
	Name         *string                `json:"name,omitempty"`
	Subject      *string                `json:"subject,omitempty"`
	Description  *string                `json:"description,omitempty"`
	CEO          *string                `json:"ceo,omitempty"`
	Address      *string                `json:"address,omitempty"`
	ZipCode      *string                `json:"zipCode,omitempty"`
	City         *string                `json:"city,omitempty"`
	Country      *string                `json:"country,omitempty"`
	Status       *string                `json:"status,omitempty"`
	Level        *string                `json:"level,omitempty"`
	Logo         *string                `json:"logo,omitempty"`
	Details      *string                `json:"details,omitempty"`
	SourceFound  *string                `json:"sourceFound,omitempty"`
	TaxID        *string                `json:"taxId,omitempty"`
	Categories   *[]string              `json:"category,omitempty"`
	Tags         *[]entity.Tag          `json:"tags,omitempty"`
	SocialMedia  *entity.SocialMedia    `json:"socialMedia,omitempty"`
	Languages    *[]string              `json:"language,omitempty"`
	PreviousCEOs *[]string              `json:"previousCEOs,omitempty"`
	Images       *[]string              `json:"images,omitempty"`
	Metrics      *entity.CompanyMetrics `json:"metrics,omitempty"`
}

// Empty reports whether the patch carries no changes.
func (p RecordPatch) Empty() bool {
	return p.Name == nil && p.Subject == nil && p.Description == nil &&
		p.CEO == nil && p.Address == nil && p.ZipCode == nil && p.City == nil &&
		p.Country == nil && p.Status == nil && p.Level == nil && p.Logo == nil &&
		p.Details == nil && p.SourceFound == nil && p.TaxID == nil &&
		p.Categories == nil && p.Tags == nil && p.SocialMedia == nil &&
		p.Languages == nil && p.PreviousCEOs == nil && p.Images == nil &&
		p.Metrics == nil
}
