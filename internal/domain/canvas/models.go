package canvas

// Wire-Strukturen der Canvas GraphQL API. Die graphql-Tags treiben die
// Query-Generierung, die json-Tags dienen Fixtures und Plan-Ausgaben.

type Term struct {
	StartAt *string `graphql:"startAt" json:"startAt"`
	EndAt   *string `graphql:"endAt" json:"endAt"`
}

type Course struct {
	ID   string `graphql:"_id" json:"_id"`
	Name string `graphql:"name" json:"name"`
	Term *Term  `graphql:"term" json:"term"`
}

type Submission struct {
	Grade *string `graphql:"grade" json:"grade"`
}

type Submissions struct {
	Nodes []Submission `graphql:"nodes" json:"nodes"`
}

type AssignmentNode struct {
	Name                  string      `graphql:"name" json:"name"`
	Description           *string     `graphql:"description" json:"description"`
	DueAt                 *string     `graphql:"dueAt" json:"dueAt"`
	UnlockAt              *string     `graphql:"unlockAt" json:"unlockAt"`
	HTMLURL               string      `graphql:"htmlUrl" json:"htmlUrl"`
	ExpectsSubmission     bool        `graphql:"expectsSubmission" json:"expectsSubmission"`
	SubmissionTypes       []string    `graphql:"submissionTypes" json:"submissionTypes"`
	SubmissionsConnection Submissions `graphql:"submissionsConnection" json:"submissionsConnection"`
}

type Assignments struct {
	Nodes []AssignmentNode `graphql:"nodes" json:"nodes"`
}

type CourseAssignments struct {
	Name                  string      `graphql:"name" json:"name"`
	AssignmentsConnection Assignments `graphql:"assignmentsConnection" json:"assignmentsConnection"`
}

// CoursesQuery: query { allCourses { _id name term { startAt endAt } } }
type CoursesQuery struct {
	AllCourses []Course `graphql:"allCourses"`
}

// AssignmentsQuery lädt alle Assignments eines Kurses
type AssignmentsQuery struct {
	Course *CourseAssignments `graphql:"course(id: $courseId)"`
}
