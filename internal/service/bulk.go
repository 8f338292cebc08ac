package service

import (
	"context"
	"strings"
	"time"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBulkBatchSize   = 5
	DefaultBulkItemTimeout = 15 * time.Second

	slugPlaceholder = "{slug}"
)

type BulkService struct {
	websites    domain.WebsiteStore
	logger      *zap.Logger
	metrics     *metrics.Metrics
	batchSize   int
	itemTimeout time.Duration
}

func NewBulkService(ws domain.WebsiteStore, logger *zap.Logger) *BulkService {
	return &BulkService{
		websites:    ws,
		logger:      logger,
		batchSize:   DefaultBulkBatchSize,
		itemTimeout: DefaultBulkItemTimeout,
	}
}

func (s *BulkService) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

func (s *BulkService) SetItemTimeout(d time.Duration) {
	if d > 0 {
		s.itemTimeout = d
	}
}

func (s *BulkService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

type BulkInput struct {
	TemplateID           domain.TemplateID `json:"template_id"`
	ColorScheme          string            `json:"color_scheme,omitempty"`
	SecondaryColorScheme string            `json:"secondary_color_scheme,omitempty"`
	// DomainPattern may contain {slug}, replaced by each company's slug.
	DomainPattern string `json:"domain_pattern,omitempty"`
	// CompanyNames holds one company per line.
	CompanyNames string `json:"company_names"`
}

type BulkResult struct {
	CompanyName string          `json:"company_name"`
	Success     bool            `json:"success"`
	Website     *domain.Website `json:"website,omitempty"`
	Error       string          `json:"error,omitempty"`
}

type BulkSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// ParseCompanyNames splits text into trimmed, non-empty lines in input order. Duplicates are kept.
func ParseCompanyNames(text string) []string {
	lines := strings.Split(text, "\n")
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// DomainFor expands pattern for slug. An empty pattern yields no domain.
func DomainFor(pattern, slug string) *string {
	if pattern == "" {
		return nil
	}
	d := strings.ReplaceAll(pattern, slugPlaceholder, slug)
	return &d
}

func Summarize(results []BulkResult) BulkSummary {
	sum := BulkSummary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			sum.Succeeded++
		} else {
			sum.Failed++
		}
	}
	return sum
}

// Provision creates one website per company name in the scope tenant. Batches run one after
// another; the items of a batch run concurrently. results[i] belongs to the i-th name.
func (s *BulkService) Provision(ctx context.Context, scope *domain.Scope, in BulkInput) ([]BulkResult, error) {
	if !scope.Can(domain.PermEditWebsites) {
		return nil, ErrForbidden
	}
	if !domain.ValidTemplateID(string(in.TemplateID)) {
		return nil, invalid("template_id", "unknown template")
	}
	names := ParseCompanyNames(in.CompanyNames)
	if len(names) == 0 {
		return nil, invalid("company_names", "at least one company name is required")
	}

	colors := domain.DefaultColors(in.TemplateID)
	if in.ColorScheme != "" {
		colors.Primary = in.ColorScheme
	}
	if in.SecondaryColorScheme != "" {
		colors.Secondary = in.SecondaryColorScheme
	}

	results := make([]BulkResult, len(names))
	for start := 0; start < len(names); start += s.batchSize {
		end := min(start+s.batchSize, len(names))

		if err := ctx.Err(); err != nil {
			for i := start; i < len(names); i++ {
				results[i] = BulkResult{CompanyName: names[i], Error: "cancelled before provisioning"}
				s.metrics.BulkItem(false)
			}
			break
		}

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = s.provisionOne(ctx, scope, in, colors, names[i])
				return nil
			})
		}
		_ = g.Wait()
	}

	sum := Summarize(results)
	s.logger.Info("bulk provisioning finished",
		zap.String("tenant_id", scope.Tenant.ID.String()),
		zap.String("template_id", string(in.TemplateID)),
		zap.Int("total", sum.Total),
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("failed", sum.Failed),
	)
	return results, nil
}

func (s *BulkService) provisionOne(ctx context.Context, scope *domain.Scope, in BulkInput, colors domain.ColorPair, name string) BulkResult {
	ctx, cancel := context.WithTimeout(ctx, s.itemTimeout)
	defer cancel()

	w := &domain.Website{
		TenantID:             scope.Tenant.ID,
		TemplateID:           in.TemplateID,
		Name:                 name,
		DomainName:           DomainFor(in.DomainPattern, Slugify(name)),
		ColorScheme:          colors.Primary,
		SecondaryColorScheme: colors.Secondary,
		DeploymentStatus:     domain.DeploymentStatusNotDeployed,
	}
	if err := s.websites.Create(ctx, w); err != nil {
		s.logger.Warn("bulk website creation failed",
			zap.String("tenant_id", scope.Tenant.ID.String()),
			zap.String("company_name", name),
			zap.Error(err),
		)
		s.metrics.BulkItem(false)
		return BulkResult{CompanyName: name, Error: "failed to create website"}
	}
	s.metrics.BulkItem(true)
	return BulkResult{CompanyName: name, Success: true, Website: w}
}
