package service

import (
	"context"
	"time"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mimic the mongo repositories' observable
// behavior: generated ObjectIDs, UTC timestamps, ErrNotFound on misses and
// ErrDuplicate where a unique index would fire.

// --- users ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := u
	return &out, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) GetByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetTraineesByAdminID(_ context.Context, adminID primitive.ObjectID) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.Role == domain.RoleTrainee && u.AssignedAdminID != nil && *u.AssignedAdminID == adminID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, id primitive.ObjectID, update domain.UserUpdate) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Status != nil {
		u.Status = *update.Status
	}
	if update.AssignedAdminID != nil {
		adminID := *update.AssignedAdminID
		u.AssignedAdminID = &adminID
	}
	if update.WeeklyGoal != nil {
		goal := *update.WeeklyGoal
		u.WeeklyGoal = &goal
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}

// addUser seeds an account directly, bypassing Create's duplicate check.
func (r *fakeUserRepo) addUser(role domain.Role, assignedAdminID *primitive.ObjectID) domain.User {
	u := domain.User{
		ID:              primitive.NewObjectID(),
		Name:            "user",
		Email:           primitive.NewObjectID().Hex() + "@example.com",
		Role:            role,
		Status:          domain.UserStatusActive,
		AssignedAdminID: assignedAdminID,
	}
	r.users[u.ID] = u
	return u
}

// --- classes ---

type fakeClassRepo struct {
	classes map[primitive.ObjectID]domain.Class
}

func newFakeClassRepo() *fakeClassRepo {
	return &fakeClassRepo{classes: make(map[primitive.ObjectID]domain.Class)}
}

func (r *fakeClassRepo) Create(_ context.Context, class *domain.Class) (primitive.ObjectID, error) {
	class.ID = primitive.NewObjectID()
	class.CreatedAt = time.Now().UTC()
	class.UpdatedAt = class.CreatedAt
	if class.Status == "" {
		class.Status = domain.ClassActive
	}
	r.classes[class.ID] = *class
	return class.ID, nil
}

func (r *fakeClassRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Class, error) {
	c, ok := r.classes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := c
	return &out, nil
}

func (r *fakeClassRepo) List(_ context.Context) ([]domain.Class, error) {
	out := make([]domain.Class, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeClassRepo) GetByInstructorID(_ context.Context, instructorID primitive.ObjectID) ([]domain.Class, error) {
	var out []domain.Class
	for _, c := range r.classes {
		if c.InstructorID == instructorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeClassRepo) Update(_ context.Context, id primitive.ObjectID, update domain.ClassUpdate) error {
	c, ok := r.classes[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.Name != nil {
		c.Name = *update.Name
	}
	if update.Capacity != nil {
		c.Capacity = *update.Capacity
	}
	if update.Duration != nil {
		c.Duration = *update.Duration
	}
	if update.Status != nil {
		c.Status = *update.Status
	}
	c.UpdatedAt = time.Now().UTC()
	r.classes[id] = c
	return nil
}

func (r *fakeClassRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.classes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.classes, id)
	return nil
}

// --- enrollments ---

type fakeEnrollmentRepo struct {
	rows []domain.ClassEnrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{}
}

func (r *fakeEnrollmentRepo) Create(_ context.Context, enrollment *domain.ClassEnrollment) (primitive.ObjectID, error) {
	enrollment.ID = primitive.NewObjectID()
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	if enrollment.Status == "" {
		enrollment.Status = domain.EnrollmentActive
	}
	r.rows = append(r.rows, *enrollment)
	return enrollment.ID, nil
}

func (r *fakeEnrollmentRepo) FindActive(_ context.Context, classID, traineeID primitive.ObjectID) (*domain.ClassEnrollment, error) {
	for _, e := range r.rows {
		if e.ClassID == classID && e.TraineeID == traineeID && e.Status == domain.EnrollmentActive {
			out := e
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeEnrollmentRepo) CountActiveByClassID(_ context.Context, classID primitive.ObjectID) (int64, error) {
	var n int64
	for _, e := range r.rows {
		if e.ClassID == classID && e.Status == domain.EnrollmentActive {
			n++
		}
	}
	return n, nil
}

func (r *fakeEnrollmentRepo) GetByClassID(_ context.Context, classID primitive.ObjectID) ([]domain.ClassEnrollment, error) {
	var out []domain.ClassEnrollment
	for _, e := range r.rows {
		if e.ClassID == classID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) GetByTraineeID(_ context.Context, traineeID primitive.ObjectID) ([]domain.ClassEnrollment, error) {
	var out []domain.ClassEnrollment
	for _, e := range r.rows {
		if e.TraineeID == traineeID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) MarkDropped(_ context.Context, id primitive.ObjectID) error {
	for i, e := range r.rows {
		if e.ID == id {
			now := time.Now().UTC()
			r.rows[i].Status = domain.EnrollmentDropped
			r.rows[i].DroppedAt = &now
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeEnrollmentRepo) DeleteByClassID(_ context.Context, classID primitive.ObjectID) (int64, error) {
	var kept []domain.ClassEnrollment
	var removed int64
	for _, e := range r.rows {
		if e.ClassID == classID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.rows = kept
	return removed, nil
}

// --- sessions ---

type fakeSessionRepo struct {
	sessions map[primitive.ObjectID]domain.ClassSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]domain.ClassSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.ClassSession) (primitive.ObjectID, error) {
	session.ID = primitive.NewObjectID()
	session.Date = domain.NormalizeScheduleDate(session.StartAt)
	session.CreatedAt = time.Now().UTC()
	session.UpdatedAt = session.CreatedAt
	if session.Status == "" {
		session.Status = domain.SessionScheduled
	}
	r.sessions[session.ID] = *session
	return session.ID, nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ClassSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := s
	return &out, nil
}

func (r *fakeSessionRepo) GetByClassID(_ context.Context, classID primitive.ObjectID) ([]domain.ClassSession, error) {
	var out []domain.ClassSession
	for _, s := range r.sessions {
		if s.ClassID == classID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, id primitive.ObjectID, update domain.SessionUpdate) error {
	s, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.StartAt != nil {
		s.StartAt = *update.StartAt
		s.Date = domain.NormalizeScheduleDate(s.StartAt)
	}
	if update.EndAt != nil {
		s.EndAt = *update.EndAt
	}
	if update.Status != nil {
		s.Status = *update.Status
	}
	if update.Location != nil {
		s.Location = update.Location
	}
	if update.Capacity != nil {
		s.Capacity = update.Capacity
	}
	if update.Notes != nil {
		s.Notes = *update.Notes
	}
	s.UpdatedAt = time.Now().UTC()
	r.sessions[id] = s
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) DeleteByClassID(_ context.Context, classID primitive.ObjectID) (int64, error) {
	var removed int64
	for id, s := range r.sessions {
		if s.ClassID == classID {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// --- attendance ---

type fakeAttendanceRepo struct {
	records []domain.Attendance
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{}
}

func (r *fakeAttendanceRepo) Create(_ context.Context, attendance *domain.Attendance) (primitive.ObjectID, error) {
	for _, a := range r.records {
		if a.ClassID == attendance.ClassID && a.TraineeID == attendance.TraineeID && a.ScheduleDate == attendance.ScheduleDate {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	attendance.ID = primitive.NewObjectID()
	attendance.MarkedAt = time.Now().UTC()
	r.records = append(r.records, *attendance)
	return attendance.ID, nil
}

func (r *fakeAttendanceRepo) FindByKey(_ context.Context, classID, traineeID primitive.ObjectID, scheduleDate int64) (*domain.Attendance, error) {
	for _, a := range r.records {
		if a.ClassID == classID && a.TraineeID == traineeID && a.ScheduleDate == scheduleDate {
			out := a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAttendanceRepo) Patch(_ context.Context, id primitive.ObjectID, status domain.AttendanceStatus, notes string, markedBy primitive.ObjectID) error {
	for i, a := range r.records {
		if a.ID == id {
			r.records[i].Status = status
			r.records[i].Notes = notes
			r.records[i].MarkedBy = markedBy
			r.records[i].MarkedAt = time.Now().UTC()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeAttendanceRepo) GetByClassID(_ context.Context, classID primitive.ObjectID) ([]domain.Attendance, error) {
	var out []domain.Attendance
	for _, a := range r.records {
		if a.ClassID == classID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) GetByTraineeID(_ context.Context, traineeID primitive.ObjectID) ([]domain.Attendance, error) {
	var out []domain.Attendance
	for _, a := range r.records {
		if a.TraineeID == traineeID {
			out = append(out, a)
		}
	}
	return out, nil
}

// --- exercises ---

type fakeExerciseRepo struct {
	exercises map[primitive.ObjectID]domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[primitive.ObjectID]domain.Exercise)}
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = time.Now().UTC()
	exercise.UpdatedAt = exercise.CreatedAt
	r.exercises[exercise.ID] = *exercise
	return exercise.ID, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := e
	return &out, nil
}

func (r *fakeExerciseRepo) List(_ context.Context) ([]domain.Exercise, error) {
	out := make([]domain.Exercise, 0, len(r.exercises))
	for _, e := range r.exercises {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeExerciseRepo) GetByCreatorID(_ context.Context, creatorID primitive.ObjectID) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range r.exercises {
		if e.CreatedBy == creatorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, id primitive.ObjectID, update domain.ExerciseUpdate) error {
	e, ok := r.exercises[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.Name != nil {
		e.Name = *update.Name
	}
	if update.ImageKey != nil {
		e.ImageKey = *update.ImageKey
	}
	if update.VideoKey != nil {
		e.VideoKey = *update.VideoKey
	}
	e.UpdatedAt = time.Now().UTC()
	r.exercises[id] = e
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

// --- templates ---

type fakeTemplateRepo struct {
	templates map[primitive.ObjectID]domain.WorkoutTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[primitive.ObjectID]domain.WorkoutTemplate)}
}

func (r *fakeTemplateRepo) Create(_ context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	template.ID = primitive.NewObjectID()
	template.CreatedAt = time.Now().UTC()
	template.UpdatedAt = template.CreatedAt
	r.templates[template.ID] = *template
	return template.ID, nil
}

func (r *fakeTemplateRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := t
	return &out, nil
}

func (r *fakeTemplateRepo) List(_ context.Context) ([]domain.WorkoutTemplate, error) {
	out := make([]domain.WorkoutTemplate, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTemplateRepo) GetByCreatorID(_ context.Context, creatorID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	var out []domain.WorkoutTemplate
	for _, t := range r.templates {
		if t.CreatedBy == creatorID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) Update(_ context.Context, id primitive.ObjectID, update domain.TemplateUpdate) error {
	t, ok := r.templates[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.Name != nil {
		t.Name = *update.Name
	}
	if update.Duration != nil {
		t.Duration = *update.Duration
	}
	if update.Exercises != nil {
		t.Exercises = *update.Exercises
	}
	t.UpdatedAt = time.Now().UTC()
	r.templates[id] = t
	return nil
}

func (r *fakeTemplateRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.templates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.templates, id)
	return nil
}

// --- assignments ---

type fakeAssignmentRepo struct {
	rows []domain.WorkoutAssignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{}
}

func (r *fakeAssignmentRepo) Create(_ context.Context, assignment *domain.WorkoutAssignment) (primitive.ObjectID, error) {
	assignment.ID = primitive.NewObjectID()
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now().UTC()
	}
	assignment.UpdatedAt = assignment.AssignedAt
	r.rows = append(r.rows, *assignment)
	return assignment.ID, nil
}

func (r *fakeAssignmentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutAssignment, error) {
	for _, a := range r.rows {
		if a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAssignmentRepo) List(_ context.Context) ([]domain.WorkoutAssignment, error) {
	out := make([]domain.WorkoutAssignment, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *fakeAssignmentRepo) GetByTraineeID(_ context.Context, traineeID primitive.ObjectID) ([]domain.WorkoutAssignment, error) {
	var out []domain.WorkoutAssignment
	for _, a := range r.rows {
		if a.TraineeID == traineeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) GetByAdminID(_ context.Context, adminID primitive.ObjectID) ([]domain.WorkoutAssignment, error) {
	var out []domain.WorkoutAssignment
	for _, a := range r.rows {
		if a.AssignedBy == adminID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) FindActive(_ context.Context, traineeID, templateID primitive.ObjectID) (*domain.WorkoutAssignment, error) {
	for _, a := range r.rows {
		if a.TraineeID == traineeID && a.TemplateID == templateID && a.Status == domain.AssignmentActive {
			out := a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAssignmentRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.AssignmentStatus, notes *string) error {
	for i, a := range r.rows {
		if a.ID == id {
			r.rows[i].Status = status
			if notes != nil {
				r.rows[i].Notes = *notes
			}
			r.rows[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeAssignmentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, a := range r.rows {
		if a.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- workout logs ---

type fakeWorkoutLogRepo struct {
	logs []domain.WorkoutLog
}

func newFakeWorkoutLogRepo() *fakeWorkoutLogRepo {
	return &fakeWorkoutLogRepo{}
}

func (r *fakeWorkoutLogRepo) Create(_ context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error) {
	log.ID = primitive.NewObjectID()
	if log.CompletedAt.IsZero() {
		log.CompletedAt = time.Now().UTC()
	}
	r.logs = append(r.logs, *log)
	return log.ID, nil
}

func (r *fakeWorkoutLogRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error) {
	for _, l := range r.logs {
		if l.ID == id {
			out := l
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkoutLogRepo) GetByTraineeID(_ context.Context, traineeID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	var out []domain.WorkoutLog
	for _, l := range r.logs {
		if l.TraineeID == traineeID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeWorkoutLogRepo) GetByTemplateID(_ context.Context, templateID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	var out []domain.WorkoutLog
	for _, l := range r.logs {
		if l.TemplateID == templateID {
			out = append(out, l)
		}
	}
	return out, nil
}

// --- progress ---

type fakeProgressRepo struct {
	measurements []domain.ProgressMeasurement
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{}
}

func (r *fakeProgressRepo) Create(_ context.Context, measurement *domain.ProgressMeasurement) (primitive.ObjectID, error) {
	measurement.ID = primitive.NewObjectID()
	if measurement.RecordedAt.IsZero() {
		measurement.RecordedAt = time.Now().UTC()
	}
	r.measurements = append(r.measurements, *measurement)
	return measurement.ID, nil
}

func (r *fakeProgressRepo) GetByTraineeID(_ context.Context, traineeID primitive.ObjectID) ([]domain.ProgressMeasurement, error) {
	var out []domain.ProgressMeasurement
	for _, m := range r.measurements {
		if m.TraineeID == traineeID {
			out = append(out, m)
		}
	}
	return out, nil
}
