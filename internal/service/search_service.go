package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const alumniIndex = "alumni"

// AlumniDocument is the searchable shape of an alumni profile.
type AlumniDocument struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	GraduationYear int      `json:"graduation_year,omitempty"`
	Department     string   `json:"department,omitempty"`
	CurrentCompany string   `json:"current_company,omitempty"`
	Position       string   `json:"position,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	Location       string   `json:"location,omitempty"`
}

type AlumniSearchQuery struct {
	Query          string
	GraduationYear int
	Department     string
	Company        string
	Limit          int64
}

type SearchService interface {
	IndexAlumni(ctx context.Context, user *model.User) error
	RemoveAlumni(ctx context.Context, userID string) error
	Search(ctx context.Context, query AlumniSearchQuery) ([]AlumniDocument, error)
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndex()
	return s
}

func (s *searchService) initIndex() {
	if s.client == nil {
		return
	}

	filterableAttrs := []string{"graduation_year", "department", "current_company"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(alumniIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update alumni filterable attributes: %v", err)
	}

	sortableAttrs := []string{"graduation_year", "name"}
	if _, err := s.client.Index(alumniIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update alumni sortable attributes: %v", err)
	}
}

func (s *searchService) IndexAlumni(ctx context.Context, user *model.User) error {
	if s.client == nil {
		return nil
	}

	doc := AlumniDocument{
		ID:   user.ID.String(),
		Name: s.sanitizer.Sanitize(user.Name),
	}
	if profile := user.Profile; profile != nil {
		if profile.GraduationYear != nil {
			doc.GraduationYear = *profile.GraduationYear
		}
		if profile.Department != nil {
			doc.Department = *profile.Department
		}
		if profile.CurrentCompany != nil {
			doc.CurrentCompany = *profile.CurrentCompany
		}
		if profile.Position != nil {
			doc.Position = *profile.Position
		}
		if profile.Skills != nil {
			for _, skill := range strings.Split(*profile.Skills, ",") {
				if skill = strings.TrimSpace(skill); skill != "" {
					doc.Skills = append(doc.Skills, skill)
				}
			}
		}
		if profile.Bio != nil {
			// User-supplied text is sanitized before it becomes searchable.
			doc.Bio = s.sanitizer.Sanitize(*profile.Bio)
		}
		if profile.Location != nil {
			doc.Location = *profile.Location
		}
	}

	_, err := s.client.Index(alumniIndex).AddDocuments([]AlumniDocument{doc}, strPtr("id"))
	return err
}

func (s *searchService) RemoveAlumni(ctx context.Context, userID string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index(alumniIndex).DeleteDocument(userID)
	return err
}

func (s *searchService) Search(ctx context.Context, query AlumniSearchQuery) ([]AlumniDocument, error) {
	if s.client == nil {
		return nil, nil
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}

	var filters []string
	if query.GraduationYear > 0 {
		filters = append(filters, fmt.Sprintf("graduation_year = %d", query.GraduationYear))
	}
	if query.Department != "" {
		filters = append(filters, fmt.Sprintf("department = %q", query.Department))
	}
	if query.Company != "" {
		filters = append(filters, fmt.Sprintf("current_company = %q", query.Company))
	}

	req := &meilisearch.SearchRequest{Limit: limit}
	if len(filters) > 0 {
		req.Filter = strings.Join(filters, " AND ")
	}

	resp, err := s.client.Index(alumniIndex).Search(query.Query, req)
	if err != nil {
		return nil, err
	}

	docs := make([]AlumniDocument, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc AlumniDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func strPtr(s string) *string {
	return &s
}
