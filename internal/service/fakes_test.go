package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/result-magic-api/internal/models"
	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*models.User
	findErr error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) FindByID(ctx context.Context, schoolID, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.SchoolID != schoolID {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) ListBySchool(ctx context.Context, schoolID string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if u.SchoolID == schoolID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, schoolID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.SchoolID != schoolID {
		return sql.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

type fakeSchoolRepo struct {
	schools   map[string]*models.School
	users     *fakeUserRepo
	createErr error
	deleted   []string
}

func newFakeSchoolRepo(users *fakeUserRepo, schools ...*models.School) *fakeSchoolRepo {
	repo := &fakeSchoolRepo{schools: make(map[string]*models.School), users: users}
	for _, s := range schools {
		repo.schools[s.ID] = s
	}
	return repo
}

func (f *fakeSchoolRepo) FindByID(ctx context.Context, id string) (*models.School, error) {
	s, ok := f.schools[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSchoolRepo) CreateWithAdmin(ctx context.Context, school *models.School, admin *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	school.ID = fmt.Sprintf("school-%d", len(f.schools)+1)
	if school.HeadPosition == "" {
		school.HeadPosition = models.DefaultHeadPosition
	}
	f.schools[school.ID] = school
	admin.SchoolID = school.ID
	if f.users != nil {
		return f.users.Create(ctx, admin)
	}
	return nil
}

func (f *fakeSchoolRepo) Update(ctx context.Context, school *models.School) error {
	copied := *school
	f.schools[school.ID] = &copied
	return nil
}

func (f *fakeSchoolRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.schools[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.schools, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTemplateRepo struct {
	templates map[string]*models.Template
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[string]*models.Template)}
}

func (f *fakeTemplateRepo) List(ctx context.Context, schoolID string) ([]models.Template, error) {
	var out []models.Template
	for _, t := range f.templates {
		if t.SchoolID == schoolID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTemplateRepo) FindByID(ctx context.Context, schoolID, id string) (*models.Template, error) {
	t, ok := f.templates[id]
	if !ok || t.SchoolID != schoolID {
		return nil, sql.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTemplateRepo) Create(ctx context.Context, tpl *models.Template) error {
	tpl.ID = fmt.Sprintf("tpl-%d", len(f.templates)+1)
	copied := *tpl
	f.templates[tpl.ID] = &copied
	return nil
}

func (f *fakeTemplateRepo) Update(ctx context.Context, tpl *models.Template) error {
	copied := *tpl
	f.templates[tpl.ID] = &copied
	return nil
}

func (f *fakeTemplateRepo) Delete(ctx context.Context, schoolID, id string) error {
	t, ok := f.templates[id]
	if !ok || t.SchoolID != schoolID {
		return sql.ErrNoRows
	}
	delete(f.templates, id)
	return nil
}

type fakeResultSetRepo struct {
	sets      map[string]*models.ResultSet
	createErr error
	listCalls int
	findCalls int
}

func newFakeResultSetRepo(sets ...*models.ResultSet) *fakeResultSetRepo {
	repo := &fakeResultSetRepo{sets: make(map[string]*models.ResultSet)}
	for _, s := range sets {
		repo.sets[s.ID] = s
	}
	return repo
}

func (f *fakeResultSetRepo) List(ctx context.Context, filter models.ResultSetFilter) ([]models.ResultSet, int, error) {
	f.listCalls++
	var out []models.ResultSet
	for _, s := range f.sets {
		if s.SchoolID != filter.SchoolID {
			continue
		}
		if filter.ClassName != "" && s.ClassName != filter.ClassName {
			continue
		}
		if filter.Term != "" && s.Term != filter.Term {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (f *fakeResultSetRepo) ListAll(ctx context.Context, schoolID string) ([]models.ResultSet, error) {
	out, _, err := f.List(ctx, models.ResultSetFilter{SchoolID: schoolID})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (f *fakeResultSetRepo) FindByID(ctx context.Context, schoolID, id string) (*models.ResultSet, error) {
	f.findCalls++
	s, ok := f.sets[id]
	if !ok || s.SchoolID != schoolID {
		return nil, sql.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func (f *fakeResultSetRepo) Create(ctx context.Context, set *models.ResultSet) error {
	if f.createErr != nil {
		return f.createErr
	}
	set.ID = fmt.Sprintf("rs-%d", len(f.sets)+1)
	copied := *set
	f.sets[set.ID] = &copied
	return nil
}

func (f *fakeResultSetRepo) Delete(ctx context.Context, schoolID, id string) error {
	s, ok := f.sets[id]
	if !ok || s.SchoolID != schoolID {
		return sql.ErrNoRows
	}
	delete(f.sets, id)
	return nil
}

type fakeDispatchRepo struct {
	records []models.DispatchRecord
}

func (f *fakeDispatchRepo) Create(ctx context.Context, record *models.DispatchRecord) error {
	record.ID = fmt.Sprintf("dispatch-%d", len(f.records)+1)
	record.CreatedAt = time.Now().UTC()
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeDispatchRepo) ListBySchool(ctx context.Context, schoolID string, limit int) ([]models.DispatchRecord, error) {
	var out []models.DispatchRecord
	for _, r := range f.records {
		if r.SchoolID == schoolID {
			out = append(out, r)
		}
	}
	return out, nil
}

// memoryCache is a CacheRepository backed by a map of already encoded values.
type memoryCache struct {
	entries map[string]interface{}
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]interface{})}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	v, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return copyJSON(v, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.entries[key] = value
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if key == pattern || (strings.HasSuffix(pattern, "*") && strings.HasPrefix(key, prefix)) {
			delete(m.entries, key)
		}
	}
	return nil
}

func boolPtr(v bool) *bool {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func adminClaims(schoolID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", SchoolID: schoolID, Role: models.RoleAdmin, FullName: "Head Admin"}
}

func teacherClaims(schoolID string, classes ...string) *models.JWTClaims {
	return &models.JWTClaims{UserID: "teacher-1", SchoolID: schoolID, Role: models.RoleTeacher, FullName: "Class Teacher", AssignedClasses: classes}
}

func sampleConfig() models.ClassConfiguration {
	return models.ClassConfiguration{
		ClassName: "JSS 1",
		ExamType:  "Terminal",
		Term:      "First Term",
		Subjects:  []string{"Math", "English"},
		GradingComponents: []models.GradingComponent{
			{Name: "CA", Percentage: 40},
			{Name: "Exam", Percentage: 60},
		},
	}
}

func sampleEntry(name, admission string, math, english [2]float64) StudentEntryRequest {
	return StudentEntryRequest{
		Name:            name,
		AdmissionNumber: admission,
		ParentDetails:   ParentDetailsRequest{FullName: "Parent of " + name, PhoneNumber: "+234 801-234-5678", Email: strings.ToLower(name) + "@parents.test"},
		Scores: models.ComponentScoreSet{
			"Math":    {"CA": math[0], "Exam": math[1]},
			"English": {"CA": english[0], "Exam": english[1]},
		},
	}
}

// copyJSON round-trips through JSON like the Redis repository does.
func copyJSON(src, dest interface{}) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
