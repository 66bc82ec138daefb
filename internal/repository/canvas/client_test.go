package canvas

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hufschlaeger.net/canvas-clickup-sync/internal/config"
)

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

func newCanvasRepoWithServer(t *testing.T, handler func(w http.ResponseWriter, req graphQLRequest)) (*Repository, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/graphql" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer canvas-token" {
			t.Errorf("missing/invalid Authorization header: %q", got)
		}

		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w, req)
	}))

	// NewRepository leitet die GraphQL URL aus CanvasURL ab
	repo := NewRepository(&config.Config{CanvasURL: srv.URL + "/", CanvasToken: "canvas-token"})
	return repo, srv
}

func TestCanvas_Courses(t *testing.T) {
	repo, srv := newCanvasRepoWithServer(t, func(w http.ResponseWriter, req graphQLRequest) {
		if !strings.Contains(req.Query, "allCourses") || !strings.Contains(req.Query, "startAt") {
			t.Errorf("unexpected query: %s", req.Query)
		}
		_, _ = w.Write([]byte(`{"data":{"allCourses":[
			{"_id":"101","name":"BIO 101","term":{"startAt":"2024-01-08T00:00:00Z","endAt":null}},
			{"_id":"202","name":"Orientation","term":null}
		]}}`))
	})
	defer srv.Close()

	courses, err := repo.Courses(t.Context())
	if err != nil {
		t.Fatalf("Courses() error = %v", err)
	}
	if len(courses) != 2 || courses[0].ID != "101" || courses[1].Name != "Orientation" {
		t.Fatalf("unexpected courses: %+v", courses)
	}
	if courses[0].Term == nil || *courses[0].Term.StartAt != "2024-01-08T00:00:00Z" || courses[0].Term.EndAt != nil {
		t.Fatalf("unexpected term: %+v", courses[0].Term)
	}
	if courses[1].Term != nil {
		t.Fatalf("expected nil term, got %+v", courses[1].Term)
	}
}

func TestCanvas_CourseAssignments(t *testing.T) {
	repo, srv := newCanvasRepoWithServer(t, func(w http.ResponseWriter, req graphQLRequest) {
		if !strings.Contains(req.Query, "course(id: $courseId)") || !strings.Contains(req.Query, "$courseId:ID!") {
			t.Errorf("unexpected query: %s", req.Query)
		}
		if req.Variables["courseId"] != "101" {
			t.Errorf("unexpected variables: %v", req.Variables)
		}
		_, _ = w.Write([]byte(`{"data":{"course":{"name":"BIO 101","assignmentsConnection":{"nodes":[
			{"name":"HW1","description":"<p>Lesen</p>","dueAt":"2024-03-01T10:00:00Z","unlockAt":null,
			 "htmlUrl":"http://canvas.test/courses/101/assignments/1","expectsSubmission":true,
			 "submissionTypes":["online_upload"],"submissionsConnection":{"nodes":[{"grade":"A"}]}}
		]}}}}`))
	})
	defer srv.Close()

	course, err := repo.CourseAssignments(t.Context(), "101")
	if err != nil {
		t.Fatalf("CourseAssignments() error = %v", err)
	}
	if course.Name != "BIO 101" || len(course.AssignmentsConnection.Nodes) != 1 {
		t.Fatalf("unexpected course: %+v", course)
	}
	node := course.AssignmentsConnection.Nodes[0]
	if node.HTMLURL != "http://canvas.test/courses/101/assignments/1" || node.UnlockAt != nil || !node.ExpectsSubmission {
		t.Fatalf("unexpected node: %+v", node)
	}
	if grade := node.SubmissionsConnection.Nodes[0].Grade; grade == nil || *grade != "A" {
		t.Fatalf("unexpected grade: %v", grade)
	}
}

func TestCanvas_CourseNotFound(t *testing.T) {
	repo, srv := newCanvasRepoWithServer(t, func(w http.ResponseWriter, req graphQLRequest) {
		_, _ = w.Write([]byte(`{"data":{"course":null}}`))
	})
	defer srv.Close()

	_, err := repo.CourseAssignments(t.Context(), "999")
	if err == nil || !strings.Contains(err.Error(), "kurs 999 nicht gefunden") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCanvas_GraphQLErrors(t *testing.T) {
	repo, srv := newCanvasRepoWithServer(t, func(w http.ResponseWriter, req graphQLRequest) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"not allowed"}]}`))
	})
	defer srv.Close()

	_, err := repo.Courses(t.Context())
	if err == nil || !strings.Contains(err.Error(), "get courses failed") || !strings.Contains(err.Error(), "not allowed") {
		t.Fatalf("expected graphql error, got %v", err)
	}
}

func TestBearer(t *testing.T) {
	if got := bearer("abc"); got != "Bearer abc" {
		t.Errorf("bearer(abc) = %q", got)
	}
	if got := bearer("Bearer abc"); got != "Bearer abc" {
		t.Errorf("bearer keeps existing prefix, got %q", got)
	}
}
