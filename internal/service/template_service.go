package service

import (
	"database/sql"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/ConectaTel/conecta_api/internal/models"
	"github.com/ConectaTel/conecta_api/internal/repository"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// placeholderRe matches {{name}} tokens inside template text.
var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// TemplateService handles message template management and rendering.
type TemplateService struct {
	templateRepo *repository.TemplateRepository
}

// NewTemplateService constructs a TemplateService.
func NewTemplateService(templateRepo *repository.TemplateRepository) *TemplateService {
	return &TemplateService{templateRepo: templateRepo}
}

// TemplateRequest is the create/update payload for a template.
type TemplateRequest struct {
	Name     string                 `json:"name" binding:"required"`
	Channel  models.CampaignChannel `json:"channel" binding:"required"`
	Subject  *string                `json:"subject"`
	Variants []string               `json:"variants" binding:"required,min=1"`
	IsActive *bool                  `json:"isActive"`
}

// CreateTemplate creates a message template.
func (s *TemplateService) CreateTemplate(req *TemplateRequest) (*models.MessageTemplate, error) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	t := &models.MessageTemplate{
		Name:     req.Name,
		Channel:  req.Channel,
		Subject:  req.Subject,
		Variants: req.Variants,
		IsActive: active,
	}
	if err := s.templateRepo.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTemplate retrieves a template by id.
func (s *TemplateService) GetTemplate(id int) (*models.MessageTemplate, error) {
	t, err := s.templateRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrTemplateNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListTemplates returns templates, optionally filtered by channel.
func (s *TemplateService) ListTemplates(channel string) ([]models.MessageTemplate, error) {
	return s.templateRepo.List(channel)
}

// UpdateTemplate overwrites a template's definition.
func (s *TemplateService) UpdateTemplate(id int, req *TemplateRequest) (*models.MessageTemplate, error) {
	t, err := s.templateRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrTemplateNotFound
		}
		return nil, err
	}

	t.Name = req.Name
	t.Channel = req.Channel
	t.Subject = req.Subject
	t.Variants = req.Variants
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	if err := s.templateRepo.Update(t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTemplate removes a template.
func (s *TemplateService) DeleteTemplate(id int) error {
	if err := s.templateRepo.Delete(id); err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrTemplateNotFound
		}
		return err
	}
	return nil
}

// Render picks a text variant for the recipient and substitutes
// placeholders. Variant selection hashes the recipient key so the same
// contact always sees the same phrasing while the rotation spreads evenly
// across an audience; rendering itself stays deterministic. Placeholders
// with no value are left intact so missing data is visible in previews.
func (s *TemplateService) Render(t *models.MessageTemplate, recipientKey string, vars map[string]string) (subject, body string) {
	variant := ""
	if len(t.Variants) > 0 {
		variant = t.Variants[variantIndex(recipientKey, len(t.Variants))]
	}

	body = substitute(variant, vars)
	if t.Subject != nil {
		subject = substitute(*t.Subject, vars)
	}
	return subject, body
}

func variantIndex(key string, n int) int {
	if n <= 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}

func substitute(text string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		if v, ok := vars[name]; ok {
			return v
		}
		return match
	})
}

// HTMLBody wraps a rendered email body in minimal markup; WhatsApp bodies
// are sent as-is.
func HTMLBody(body string) string {
	escaped := strings.ReplaceAll(body, "\n", "<br>")
	return "<html><body>" + escaped + "</body></html>"
}
