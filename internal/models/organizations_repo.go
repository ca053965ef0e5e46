package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
)

type OrganizationsRepo interface {
	ListOrganizations(ctx context.Context) ([]Organization, error)
	GetOrganizationByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	UpdateOrganization(ctx context.Context, id uuid.UUID, patch map[string]interface{}, accessToken string) (*Organization, error)
}

func (su *SupabaseRepo) ListOrganizations(ctx context.Context) ([]Organization, error) {
	raw, _, err := su.supabaseClient.From(OrganizationsTable).
		Select("*", "", false).
		Order("rating", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	var orgs []Organization
	if err := json.Unmarshal(raw, &orgs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal organization rows: %w", err)
	}
	return orgs, nil
}

func (su *SupabaseRepo) GetOrganizationByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid organization ID")
	}

	raw, _, err := su.supabaseClient.From(OrganizationsTable).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	var orgs []Organization
	if err := json.Unmarshal(raw, &orgs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal organization rows: %w", err)
	}
	if len(orgs) == 0 {
		return nil, fmt.Errorf("organization not found")
	}
	return &orgs[0], nil
}

func (su *SupabaseRepo) UpdateOrganization(ctx context.Context, id uuid.UUID, patch map[string]interface{}, accessToken string) (*Organization, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %w", err)
	}

	raw, count, err := client.From(OrganizationsTable).
		Update(patch, "", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("no organization found to update")
	}

	var updated []Organization
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated organization: %w", err)
	}
	if len(updated) == 0 {
		return nil, fmt.Errorf("no organization data returned after update")
	}
	return &updated[0], nil
}
