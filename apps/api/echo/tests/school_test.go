package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	. "github.com/trezcool/soma/apps/api/echo"
	"github.com/trezcool/soma/core/school"
	"github.com/trezcool/soma/core/user"
	testutil "github.com/trezcool/soma/tests"
)

func Test_pendingStudents(t *testing.T) {
	app := setup(t)

	academic := testutil.CreateProfile(t, usrRepo, "Director Nakato", "director@soma.ug", "pass123", user.RoleAcademic, "gayaza", user.StatusApproved)
	student := testutil.CreateProfile(t, usrRepo, "Okello Bosco", "okello@soma.ug", "pass123", user.RoleStudent, "gayaza", user.StatusApproved)
	pending := testutil.CreateProfile(t, usrRepo, "Amina Nansubuga", "amina@soma.ug", "pass123", user.RoleStudent, "gayaza", user.StatusPending)
	_ = testutil.CreateProfile(t, usrRepo, "Other School Kid", "other@soma.ug", "pass123", user.RoleStudent, "kisubi", user.StatusPending)

	tests := []httpTest{
		{name: "no token", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "student cannot list", token: getToken(t, student), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{
			name: "only own school's pending students", token: getToken(t, academic),
			wantCode: http.StatusOK, wantData: marchallList(t, pending),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/school/students/pending", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_updateStudentStatus(t *testing.T) {
	app := setup(t)

	academic := testutil.CreateProfile(t, usrRepo, "Director Nakato", "director@soma.ug", "pass123", user.RoleAcademic, "gayaza", user.StatusApproved)
	teacher := testutil.CreateProfile(t, usrRepo, "Grace Achieng", "grace@soma.ug", "pass123", user.RoleTeacher, "gayaza", user.StatusApproved)
	pending := testutil.CreateProfile(t, usrRepo, "Amina Nansubuga", "amina@soma.ug", "pass123", user.RoleStudent, "gayaza", user.StatusPending)
	token := getToken(t, academic)

	tests := []httpTest{
		{
			name: "unknown status", path: pending.ID, body: marchallObj(t, StatusUpdateRequest{Status: "graduated"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"status": "unknown approval status"}),
		},
		{
			name: "only students go through the workflow", path: teacher.ID, body: marchallObj(t, StatusUpdateRequest{Status: "approved"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "only student profiles go through the approval workflow"}),
		},
		{
			name: "unknown student fails soft", path: "nope", body: marchallObj(t, StatusUpdateRequest{Status: "approved"}),
			wantCode: http.StatusOK, wantData: marchallObj(t, SuccessResponse{Success: false}),
		},
		{
			name: "approve", path: pending.ID, body: marchallObj(t, StatusUpdateRequest{Status: "approved"}),
			wantCode: http.StatusOK, wantData: marchallObj(t, SuccessResponse{Success: true}), extra: user.StatusApproved,
		},
		{
			name: "reject", path: pending.ID, body: marchallObj(t, StatusUpdateRequest{Status: "rejected"}),
			wantCode: http.StatusOK, wantData: marchallObj(t, SuccessResponse{Success: true}), extra: user.StatusRejected,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("/api/school/students/%s/status", tt.path)
			req, rec := newAuthRequest(http.MethodPut, path, token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if wantStatus, ok := tt.extra.(string); ok {
				prof, err := usrRepo.GetProfileByID(context.Background(), pending.ID)
				if err != nil {
					t.Fatalf("GetProfileByID(): %v", err)
				}
				if prof.Status != wantStatus {
					t.Errorf("failed! status = %s; want %s", prof.Status, wantStatus)
				}
			}
		})
	}
}

func Test_classes(t *testing.T) {
	app := setup(t)

	academic := testutil.CreateProfile(t, usrRepo, "Director Nakato", "director@soma.ug", "pass123", user.RoleAcademic, "gayaza", user.StatusApproved)
	teacher := testutil.CreateProfile(t, usrRepo, "Grace Achieng", "grace@soma.ug", "pass123", user.RoleTeacher, "gayaza", user.StatusApproved)
	token := getToken(t, academic)

	t.Run("teacher cannot create", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}
		req, rec := newAuthRequest(http.MethodPost, "/api/school/classes", getToken(t, teacher), marchallObj(t, school.NewClass{Name: "S1 East", Level: "S1"}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("missing fields", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "this field is required", "level": "this field is required"}),
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/school/classes", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	var created school.Class
	t.Run("create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/school/classes", token, marchallObj(t, school.NewClass{Name: "S1 East", Level: "S1"}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusCreated)
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		if created.ID == "" || created.Name != "S1 East" || created.Level != "S1" {
			t.Errorf("failed! class = %+v", created)
		}
	})

	t.Run("list", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, created)}
		req, rec := newAuthRequest(http.MethodGet, "/api/school/classes", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_teachers(t *testing.T) {
	app := setup(t)

	academic := testutil.CreateProfile(t, usrRepo, "Director Nakato", "director@soma.ug", "pass123", user.RoleAcademic, "gayaza", user.StatusApproved)
	teacher := testutil.CreateProfile(t, usrRepo, "Grace Achieng", "grace@soma.ug", "pass123", user.RoleTeacher, "gayaza", user.StatusApproved)
	_ = testutil.CreateProfile(t, usrRepo, "Okello Bosco", "okello@soma.ug", "pass123", user.RoleStudent, "gayaza", user.StatusApproved)
	_ = testutil.CreateProfile(t, usrRepo, "Far Away Teacher", "far@soma.ug", "pass123", user.RoleTeacher, "kisubi", user.StatusApproved)

	tt := httpTest{name: "own school's teachers only", wantCode: http.StatusOK, wantData: marchallList(t, teacher)}
	t.Run(tt.name, func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/school/teachers", getToken(t, academic))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_teacherCourses(t *testing.T) {
	app := setup(t)

	academic := testutil.CreateProfile(t, usrRepo, "Director Nakato", "director@soma.ug", "pass123", user.RoleAcademic, "gayaza", user.StatusApproved)
	teacher := testutil.CreateProfile(t, usrRepo, "Grace Achieng", "grace@soma.ug", "pass123", user.RoleTeacher, "gayaza", user.StatusApproved)
	token := getToken(t, teacher)

	t.Run("assign always succeeds", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, SuccessResponse{Success: true})}
		path := fmt.Sprintf("/api/school/teachers/%s/courses", teacher.ID)
		req, rec := newAuthRequest(http.MethodPost, path, getToken(t, academic), marchallObj(t, map[string]string{"subject": "Physics"}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("courses derive from published resources", func(t *testing.T) {
		for _, res := range []school.NewResource{
			{Title: "Cells", Unit: "Unit 1", Subject: "Biology"},
			{Title: "Tissues", Unit: "Unit 2", Subject: "Biology"},
			{Title: "Algebra", Unit: "Unit 1", Subject: "Mathematics"},
		} {
			req, rec := newAuthRequest(http.MethodPost, "/api/school/resources", token, marchallObj(t, res))
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusCreated {
				t.Fatalf("seeding resource failed! code = %v", rec.Code)
			}
		}

		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, []string{"Biology", "Mathematics"})}
		path := fmt.Sprintf("/api/school/teachers/%s/courses", teacher.ID)
		req, rec := newAuthRequest(http.MethodGet, path, token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_studentProgress(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateProfile(t, usrRepo, "Grace Achieng", "grace@soma.ug", "pass123", user.RoleTeacher, "gayaza", user.StatusApproved)
	excellent := testutil.CreateProfile(t, usrRepo, "Okello Bosco", "okello@soma.ug", "pass123", user.RoleStudent, "gayaza", user.StatusApproved)
	onTrack := testutil.CreateProfile(t, usrRepo, "Amina Nansubuga", "amina@soma.ug", "pass123", user.RoleStudent, "gayaza", user.StatusApproved)
	atRisk := testutil.CreateProfile(t, usrRepo, "Kato Mugisha", "kato@soma.ug", "pass123", user.RoleStudent, "gayaza", user.StatusApproved)

	now := time.Now().UTC()
	db.SetMastery(excellent.ID, "Mathematics", 95, now)
	db.SetMastery(onTrack.ID, "Mathematics", 65, now)
	db.SetMastery(atRisk.ID, "Mathematics", 30, now)
	db.SetMastery(excellent.ID, "Biology", 40, now)

	token := getToken(t, teacher)

	t.Run("statuses derive from mastery", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/school/progress?subject=Mathematics", token)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var progress []school.StudentProgress
		if err := json.Unmarshal(rec.Body.Bytes(), &progress); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		if len(progress) != 3 {
			t.Fatalf("failed! len = %d; want 3", len(progress))
		}

		wantStatuses := map[string]string{
			excellent.ID: school.ProgressExcellent,
			onTrack.ID:   school.ProgressOnTrack,
			atRisk.ID:    school.ProgressAtRisk,
		}
		for _, p := range progress {
			if p.Status != wantStatuses[p.StudentID] {
				t.Errorf("failed! %s status = %s; want %s", p.StudentName, p.Status, wantStatuses[p.StudentID])
			}
		}
	})

	t.Run("unknown subject is empty", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: []byte("[]")}
		req, rec := newAuthRequest(http.MethodGet, "/api/school/progress?subject=History", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_exportProgress(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateProfile(t, usrRepo, "Grace Achieng", "grace@soma.ug", "pass123", user.RoleTeacher, "gayaza", user.StatusApproved)
	student := testutil.CreateProfile(t, usrRepo, "Okello Bosco", "okello@soma.ug", "pass123", user.RoleStudent, "gayaza", user.StatusApproved)
	db.SetMastery(student.ID, "Mathematics", 95, time.Now().UTC())

	req, rec := newAuthRequest(http.MethodGet, "/api/school/progress/export?subject=Mathematics", getToken(t, teacher))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
	}
	if disp := rec.Header().Get("Content-Disposition"); disp != `attachment; filename=progress-Mathematics.xlsx` {
		t.Errorf("failed! Content-Disposition = %q", disp)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("excelize.OpenReader(): %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Mathematics")
	if err != nil {
		t.Fatalf("GetRows(): %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("failed! rows = %d; want 2", len(rows))
	}
	wantHeader := []string{"Student", "Mastery (%)", "Status", "Last Active"}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Errorf("failed! header[%d] = %q; want %q", i, rows[0][i], h)
		}
	}
	if rows[1][0] != student.FullName {
		t.Errorf("failed! row student = %q; want %q", rows[1][0], student.FullName)
	}
}

func Test_feedback(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateProfile(t, usrRepo, "Grace Achieng", "grace@soma.ug", "pass123", user.RoleTeacher, "gayaza", user.StatusApproved)
	student := testutil.CreateProfile(t, usrRepo, "Okello Bosco", "okello@soma.ug", "pass123", user.RoleStudent, "gayaza", user.StatusApproved)
	teacherToken := getToken(t, teacher)
	studentToken := getToken(t, student)

	t.Run("student cannot send", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}
		body := marchallObj(t, school.NewFeedback{StudentID: student.ID, Subject: "Mathematics", Message: "lol"})
		req, rec := newAuthRequest(http.MethodPost, "/api/school/feedback", studentToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("send and read back newest-first", func(t *testing.T) {
		for _, msg := range []string{"Keep practicing fractions", "Great improvement this week"} {
			body := marchallObj(t, school.NewFeedback{StudentID: student.ID, Subject: "Mathematics", Message: msg})
			req, rec := newAuthRequest(http.MethodPost, "/api/school/feedback", teacherToken, body)
			app.ServeHTTP(rec, req)

			tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, SuccessResponse{Success: true})}
			checkCodeAndData(t, tt, rec)
			time.Sleep(5 * time.Millisecond) // distinct creation times
		}

		req, rec := newAuthRequest(http.MethodGet, "/api/school/feedback", studentToken)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var feedback []school.Feedback
		if err := json.Unmarshal(rec.Body.Bytes(), &feedback); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		if len(feedback) != 2 {
			t.Fatalf("failed! len = %d; want 2", len(feedback))
		}
		if feedback[0].Message != "Great improvement this week" {
			t.Errorf("failed! first message = %q; want newest", feedback[0].Message)
		}
		if feedback[0].FromTeacher != teacher.FullName {
			t.Errorf("failed! fromTeacher = %q; want %q", feedback[0].FromTeacher, teacher.FullName)
		}
	})
}

func Test_exams(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateProfile(t, usrRepo, "Grace Achieng", "grace@soma.ug", "pass123", user.RoleTeacher, "gayaza", user.StatusApproved)
	student := testutil.CreateProfile(t, usrRepo, "Okello Bosco", "okello@soma.ug", "pass123", user.RoleStudent, "gayaza", user.StatusApproved)
	token := getToken(t, teacher)

	t.Run("missing fields", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"title":    "this field is required",
				"subject":  "this field is required",
				"date":     "this field is required",
				"duration": "this field is required",
			}),
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/school/exams", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("schedule and list ascending by date", func(t *testing.T) {
		for _, ne := range []school.NewExam{
			{Title: "End of Term", Subject: "Mathematics", Date: "2026-11-20", Duration: "2h"},
			{Title: "Mid Term", Subject: "Mathematics", Date: "2026-10-05", Duration: "1h 30m"},
			{Title: "Practical", Subject: "Biology", Date: "2026-10-12", Duration: "1h"},
		} {
			req, rec := newAuthRequest(http.MethodPost, "/api/school/exams", token, marchallObj(t, ne))
			app.ServeHTTP(rec, req)

			if rec.Code != http.StatusCreated {
				t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusCreated)
			}
			var exam school.Exam
			if err := json.Unmarshal(rec.Body.Bytes(), &exam); err != nil {
				t.Fatalf("json.Unmarshal(): %v", err)
			}
			if exam.Status != school.ExamUpcoming {
				t.Errorf("failed! status = %s; want %s", exam.Status, school.ExamUpcoming)
			}
		}

		req, rec := newAuthRequest(http.MethodGet, "/api/school/exams", getToken(t, student))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var exams []school.Exam
		if err := json.Unmarshal(rec.Body.Bytes(), &exams); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		wantDates := []string{"2026-10-05", "2026-10-12", "2026-11-20"}
		if len(exams) != len(wantDates) {
			t.Fatalf("failed! len = %d; want %d", len(exams), len(wantDates))
		}
		for i, want := range wantDates {
			if exams[i].Date != want {
				t.Errorf("failed! exams[%d].Date = %s; want %s", i, exams[i].Date, want)
			}
		}

		// subject filter
		req, rec = newAuthRequest(http.MethodGet, "/api/school/exams?subject=Biology", getToken(t, student))
		app.ServeHTTP(rec, req)
		exams = nil
		if err := json.Unmarshal(rec.Body.Bytes(), &exams); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		if len(exams) != 1 || exams[0].Subject != "Biology" {
			t.Errorf("failed! filtered exams = %+v", exams)
		}
	})
}

func Test_resources(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateProfile(t, usrRepo, "Grace Achieng", "grace@soma.ug", "pass123", user.RoleTeacher, "gayaza", user.StatusApproved)
	student := testutil.CreateProfile(t, usrRepo, "Okello Bosco", "okello@soma.ug", "pass123", user.RoleStudent, "gayaza", user.StatusApproved)

	var created school.Resource
	t.Run("publish", func(t *testing.T) {
		body := marchallObj(t, school.NewResource{
			Title:    "Photosynthesis Notes",
			Unit:     "Unit 3",
			Subject:  "Biology",
			FileSize: "1.2 MB",
			Content:  "Plants convert sunlight into chemical energy...",
		})
		req, rec := newAuthRequest(http.MethodPost, "/api/school/resources", getToken(t, teacher), body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusCreated)
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		if created.ID == "" {
			t.Error("failed! empty resource ID")
		}
	})

	t.Run("students read back what was published", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, created)}
		req, rec := newAuthRequest(http.MethodGet, "/api/school/resources?subject=Biology", getToken(t, student))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_linkStudent(t *testing.T) {
	app := setup(t)

	parent := testutil.CreateProfile(t, usrRepo, "Mama Okello", "mama@soma.ug", "pass123", user.RoleParent, "gayaza", user.StatusApproved)
	student := testutil.CreateProfile(t, usrRepo, "Okello Bosco", "okello@soma.ug", "pass123", user.RoleStudent, "gayaza", user.StatusApproved)
	teacher := testutil.CreateProfile(t, usrRepo, "Grace Achieng", "grace@soma.ug", "pass123", user.RoleTeacher, "gayaza", user.StatusApproved)
	token := getToken(t, parent)

	tests := []httpTest{
		{name: "teacher cannot link", token: getToken(t, teacher), body: marchallObj(t, LinkStudentRequest{StudentCode: student.StudentCode}), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "missing code", token: token, wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"studentCode": "this field is required"})},
		{name: "unknown code fails soft", token: token, body: marchallObj(t, LinkStudentRequest{StudentCode: "SOMA-0000"}), wantCode: http.StatusOK, wantData: marchallObj(t, user.LinkResult{})},
		{name: "link", token: token, body: marchallObj(t, LinkStudentRequest{StudentCode: student.StudentCode}), wantCode: http.StatusOK, wantData: marchallObj(t, user.LinkResult{Success: true, StudentName: student.FullName})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/school/link-student", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_health(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateProfile(t, usrRepo, "Head Master", "hm@soma.ug", "pass123", user.RoleAdmin, "gayaza", user.StatusApproved)
	teacher := testutil.CreateProfile(t, usrRepo, "Grace Achieng", "grace@soma.ug", "pass123", user.RoleTeacher, "gayaza", user.StatusApproved)

	tests := []httpTest{
		{name: "teacher cannot view", token: getToken(t, teacher), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{
			name: "snapshot", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: marchallObj(t, school.HealthSnapshot{Status: "Optimal", Users: 2, Uptime: "99.9%"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/school/health", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
