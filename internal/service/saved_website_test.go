package service

import (
	"context"
	"testing"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavedWebsiteService(t *testing.T) {
	svc := NewSavedWebsiteService(newFakeWebsiteConfigStore())
	ctx := context.Background()
	user := newUser("jane@example.com")
	other := newUser("other@example.com")

	saved, err := svc.Save(ctx, &user, domain.CompanyData{CompanyName: "Acme", Template: domain.TemplateTradecraft, DomainName: "acme.example"})
	require.NoError(t, err)
	assert.Equal(t, "blue", saved.ColorScheme)
	assert.Equal(t, "acme.example", *saved.DomainName)

	list, err := svc.List(ctx, &user)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Get(ctx, &other, saved.ID)
	assert.ErrorIs(t, err, ErrSavedWebsiteNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, &other, saved.ID), ErrSavedWebsiteNotFound)

	require.NoError(t, svc.Delete(ctx, &user, saved.ID))
	_, err = svc.Get(ctx, &user, saved.ID)
	assert.ErrorIs(t, err, ErrSavedWebsiteNotFound)

	_, err = svc.Save(ctx, &user, domain.CompanyData{CompanyName: "", Template: domain.TemplateRetail})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = svc.List(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
