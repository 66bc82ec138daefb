package canvas

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hasura/go-graphql-client"

	"hufschlaeger.net/canvas-clickup-sync/internal/config"
	canvasDomain "hufschlaeger.net/canvas-clickup-sync/internal/domain/canvas"
)

type authTransport struct {
	token string
	base  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrip darf den Request nicht verändern
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", bearer(t.token))
	return t.base.RoundTrip(req)
}

func bearer(token string) string {
	if strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}

type Repository struct {
	config *config.Config
	client *graphql.Client
}

func NewRepository(cfg *config.Config) *Repository {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &authTransport{
			token: cfg.CanvasToken,
			base:  http.DefaultTransport,
		},
	}

	return &Repository{
		config: cfg,
		client: graphql.NewClient(cfg.GetCanvasGraphQLURL(), httpClient),
	}
}

// Courses lädt alle Kurse des Token-Inhabers inklusive Term
func (r *Repository) Courses(ctx context.Context) ([]canvasDomain.Course, error) {
	var query canvasDomain.CoursesQuery
	if err := r.client.Query(ctx, &query, nil); err != nil {
		return nil, fmt.Errorf("get courses failed: %w", err)
	}
	return query.AllCourses, nil
}

// CourseAssignments lädt Kursname und Assignments eines Kurses
func (r *Repository) CourseAssignments(ctx context.Context, courseID string) (*canvasDomain.CourseAssignments, error) {
	var query canvasDomain.AssignmentsQuery
	variables := map[string]interface{}{
		"courseId": graphql.ID(courseID),
	}

	if err := r.client.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("get assignments for course %s failed: %w", courseID, err)
	}
	if query.Course == nil {
		return nil, fmt.Errorf("kurs %s nicht gefunden", courseID)
	}
	return query.Course, nil
}
