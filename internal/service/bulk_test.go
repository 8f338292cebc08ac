package service

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func bulkFixture(t *testing.T) (*testEnv, *BulkService, *domain.Scope) {
	t.Helper()
	env := newTestEnv()
	user := newUser("jane@example.com")
	tenant, err := env.tenantSvc.CreateTenant(context.Background(), &user, CreateTenantInput{Name: "Agency"})
	require.NoError(t, err)
	svc := NewBulkService(env.websites, zap.NewNop())
	return env, svc, env.scopeFor(user, tenant.ID)
}

func TestParseCompanyNames(t *testing.T) {
	names := ParseCompanyNames("Acme\n\n  Beta Corp  \n   \nAcme\r\n")
	assert.Equal(t, []string{"Acme", "Beta Corp", "Acme"}, names)
	assert.Empty(t, ParseCompanyNames("\n \n"))
}

func TestDomainFor(t *testing.T) {
	assert.Nil(t, DomainFor("", "acme"))
	assert.Equal(t, "acme.example.com", *DomainFor("{slug}.example.com", "acme"))
	assert.Equal(t, "acme-acme.io", *DomainFor("{slug}-{slug}.io", "acme"))
	assert.Equal(t, "static.example.com", *DomainFor("static.example.com", "acme"))
}

func TestBulkService_Provision_AllSucceed(t *testing.T) {
	env, svc, scope := bulkFixture(t)

	names := []string{"Acme Co", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta"}
	results, err := svc.Provision(context.Background(), scope, BulkInput{
		TemplateID:    domain.TemplateRetail,
		DomainPattern: "{slug}.sites.example",
		CompanyNames:  strings.Join(names, "\n"),
	})
	require.NoError(t, err)
	require.Len(t, results, len(names))

	for i, r := range results {
		assert.Equal(t, names[i], r.CompanyName)
		assert.True(t, r.Success)
		require.NotNil(t, r.Website)
		assert.Equal(t, scope.Tenant.ID, r.Website.TenantID)
		assert.Equal(t, "purple", r.Website.ColorScheme)
		assert.Equal(t, "pink", r.Website.SecondaryColorScheme)
	}
	assert.Equal(t, "acme-co.sites.example", *results[0].Website.DomainName)
	assert.Equal(t, BulkSummary{Total: 7, Succeeded: 7}, Summarize(results))

	ws, _ := env.websites.ListByTenants(context.Background(), scope.VisibleTenantIDs)
	assert.Len(t, ws, 7)
}

func TestBulkService_Provision_FailureIsolated(t *testing.T) {
	env, svc, scope := bulkFixture(t)
	env.websites.failCreate = func(w *domain.Website) error {
		if w.Name == "Company 3" {
			return errBoom
		}
		return nil
	}

	var lines []string
	for i := 1; i <= 7; i++ {
		lines = append(lines, "Company "+string(rune('0'+i)))
	}
	results, err := svc.Provision(context.Background(), scope, BulkInput{
		TemplateID:   domain.TemplateCleanSlate,
		CompanyNames: strings.Join(lines, "\n"),
	})
	require.NoError(t, err)
	require.Len(t, results, 7)

	for i, r := range results {
		if i == 2 {
			assert.False(t, r.Success)
			assert.NotEmpty(t, r.Error)
			assert.Nil(t, r.Website)
			continue
		}
		assert.True(t, r.Success, "item %d", i)
	}
	assert.Equal(t, BulkSummary{Total: 7, Succeeded: 6, Failed: 1}, Summarize(results))
}

func TestBulkService_Provision_EmptyLinesSkipped(t *testing.T) {
	env, svc, scope := bulkFixture(t)
	var attempts atomic.Int32
	env.websites.failCreate = func(w *domain.Website) error {
		attempts.Add(1)
		return nil
	}

	results, err := svc.Provision(context.Background(), scope, BulkInput{
		TemplateID:   domain.TemplateExpert,
		CompanyNames: "Acme\n\n   \nBeta",
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, int32(2), attempts.Load())
	assert.Nil(t, results[0].Website.DomainName)
}

func TestBulkService_Provision_BatchConcurrency(t *testing.T) {
	env, svc, scope := bulkFixture(t)
	env.websites.createDelay = 20 * time.Millisecond
	svc.SetBatchSize(3)

	results, err := svc.Provision(context.Background(), scope, BulkInput{
		TemplateID:   domain.TemplateService,
		CompanyNames: "a\nb\nc\nd\ne\nf\ng",
	})
	require.NoError(t, err)
	assert.Len(t, results, 7)
	assert.LessOrEqual(t, env.websites.maxInFlight, 3)
	assert.Greater(t, env.websites.maxInFlight, 1)
}

func TestBulkService_Provision_ItemTimeout(t *testing.T) {
	env, svc, scope := bulkFixture(t)
	env.websites.createDelay = time.Second
	svc.SetItemTimeout(10 * time.Millisecond)

	results, err := svc.Provision(context.Background(), scope, BulkInput{
		TemplateID:   domain.TemplateService,
		CompanyNames: "a\nb",
	})
	require.NoError(t, err)
	assert.Equal(t, BulkSummary{Total: 2, Failed: 2}, Summarize(results))
}

func TestBulkService_Provision_CancelledContext(t *testing.T) {
	_, svc, scope := bulkFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := svc.Provision(ctx, scope, BulkInput{TemplateID: domain.TemplateService, CompanyNames: "a\nb"})
	require.NoError(t, err)
	for _, r := range results {
		assert.False(t, r.Success)
	}
}

func TestBulkService_Provision_Validation(t *testing.T) {
	_, svc, scope := bulkFixture(t)
	ctx := context.Background()

	_, err := svc.Provision(ctx, scope, BulkInput{TemplateID: "nope", CompanyNames: "a"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "template_id", ve.Field)

	_, err = svc.Provision(ctx, scope, BulkInput{TemplateID: domain.TemplateRetail, CompanyNames: "\n  \n"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "company_names", ve.Field)
}

func TestBulkService_Provision_Forbidden(t *testing.T) {
	_, svc, scope := bulkFixture(t)
	scope.Role = domain.RoleViewer

	_, err := svc.Provision(context.Background(), scope, BulkInput{TemplateID: domain.TemplateRetail, CompanyNames: "a"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestBulkService_Provision_CustomColorsAndMetrics(t *testing.T) {
	_, svc, scope := bulkFixture(t)
	svc.SetMetrics(metrics.New())

	results, err := svc.Provision(context.Background(), scope, BulkInput{
		TemplateID:   domain.TemplateRetail,
		ColorScheme:  "red",
		CompanyNames: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "red", results[0].Website.ColorScheme)
	assert.Equal(t, "pink", results[0].Website.SecondaryColorScheme)
}
