package dto

// ClassCreateRequest provisions a new class together with its student codes.
type ClassCreateRequest struct {
	Name         string `json:"name" validate:"required,max=64"`
	TeacherID    string `json:"teacher_id" validate:"required"`
	StudentCount int    `json:"student_count" validate:"required,min=1,max=200"`
}

// ClassCreateResponse returns the created class and the generated codes.
// Teachers can re-view the codes later through the codes listing.
type ClassCreateResponse struct {
	ClassID string   `json:"class_id"`
	Name    string   `json:"name"`
	Codes   []string `json:"codes"`
}

// StudentCodeStatus is one issued code together with whether its holder has
// ever submitted an entry.
type StudentCodeStatus struct {
	Code string `json:"code"`
	Used bool   `json:"used"`
}

// ClassCodesResponse lists a class's student codes for handing out again.
type ClassCodesResponse struct {
	ClassID string              `json:"class_id"`
	Codes   []StudentCodeStatus `json:"codes"`
}

// TeacherCreateRequest provisions a teacher account.
type TeacherCreateRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required,max=128"`
	ClassID     string `json:"class_id" validate:"omitempty,max=64"`
}

// TeacherResponse is the API shape of a teacher account.
type TeacherResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	ClassID     string `json:"class_id,omitempty"`
}

// DailySubmissionCount is one day of the teacher dashboard series.
type DailySubmissionCount struct {
	Date      string `json:"date"`
	Submitted int    `json:"submitted"`
	Total     int    `json:"total"`
}

// ClassDashboardResponse is the teacher's view of their class activity.
type ClassDashboardResponse struct {
	ClassID       string                 `json:"class_id"`
	ClassName     string                 `json:"class_name"`
	TotalStudents int                    `json:"total_students"`
	Submissions   []DailySubmissionCount `json:"submissions"`
}

// ClassSummary is one class entry in the teacher's class picker.
type ClassSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClassOverview is one class row of the admin overview.
type ClassOverview struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	TotalStudents    int                `json:"total_students"`
	ActiveStudents   int                `json:"active_students"`
	PendingQuestions int                `json:"pending_questions"`
	Pending          []QuestionResponse `json:"pending"`
}
