package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/ai"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// In-memory repository stand-ins for service tests.

type fakeTicketRepo struct {
	tickets map[string]domain.Ticket
	seq     int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.Code = repository.FormatTicketCode(2026, time.August, int64(r.seq))
	ticket.CreatedAt = time.Now().UTC()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now().UTC()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetByCode(_ context.Context, code string) (*domain.Ticket, error) {
	for _, ticket := range r.tickets {
		if ticket.Code == code {
			copied := ticket
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, _ repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		result = append(result, ticket)
	}
	return result, nil
}

func (r *fakeTicketRepo) ListOpenWithDeadlineBefore(_ context.Context, cutoff time.Time, _ int) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.Status.IsOpen() && !ticket.SLABreach &&
			ticket.SLADeadline != nil && ticket.SLADeadline.Before(cutoff) {
			result = append(result, ticket)
		}
	}
	return result, nil
}

type fakeCommentRepo struct {
	comments []domain.TicketComment
	seq      int
	failNext bool
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.TicketComment) error {
	if r.failNext {
		r.failNext = false
		return fmt.Errorf("comment store unavailable")
	}
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	comment.CreatedAt = time.Now().UTC()
	comment.UpdatedAt = comment.CreatedAt
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*domain.TicketComment, error) {
	for _, c := range r.comments {
		if c.ID == id {
			copied := c
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string, includeInternal bool) ([]domain.TicketComment, error) {
	var result []domain.TicketComment
	for _, c := range r.comments {
		if c.TicketID != ticketID {
			continue
		}
		if c.IsInternal && !includeInternal {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (r *fakeCommentRepo) byTicket(ticketID string) []domain.TicketComment {
	out, _ := r.ListByTicket(context.Background(), ticketID, true)
	return out
}

type fakeUpdateRepo struct {
	updates []domain.TicketUpdate
}

func (r *fakeUpdateRepo) Create(_ context.Context, update *domain.TicketUpdate) error {
	update.ID = fmt.Sprintf("update-%d", len(r.updates)+1)
	update.CreatedAt = time.Now().UTC()
	r.updates = append(r.updates, *update)
	return nil
}

func (r *fakeUpdateRepo) ListByTicket(_ context.Context, ticketID string, includeInternal bool) ([]domain.TicketUpdate, error) {
	var result []domain.TicketUpdate
	for _, u := range r.updates {
		if u.TicketID != ticketID {
			continue
		}
		if u.Internal && !includeInternal {
			continue
		}
		result = append(result, u)
	}
	return result, nil
}

type fakeEscalationRepo struct {
	escalations []domain.TicketEscalation
}

func (r *fakeEscalationRepo) Create(_ context.Context, escalation *domain.TicketEscalation) error {
	escalation.ID = fmt.Sprintf("escalation-%d", len(r.escalations)+1)
	escalation.CreatedAt = time.Now().UTC()
	r.escalations = append(r.escalations, *escalation)
	return nil
}

func (r *fakeEscalationRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketEscalation, error) {
	var result []domain.TicketEscalation
	for _, e := range r.escalations {
		if e.TicketID == ticketID {
			result = append(result, e)
		}
	}
	return result, nil
}

type fakeAttachmentRepo struct {
	attachments []domain.TicketAttachment
}

func (r *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.TicketAttachment) error {
	attachment.ID = fmt.Sprintf("attachment-%d", len(r.attachments)+1)
	attachment.CreatedAt = time.Now().UTC()
	r.attachments = append(r.attachments, *attachment)
	return nil
}

func (r *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketAttachment, error) {
	var result []domain.TicketAttachment
	for _, a := range r.attachments {
		if a.TicketID == ticketID {
			result = append(result, a)
		}
	}
	return result, nil
}

type fakeDepartmentRepo struct {
	departments map[string]domain.Department // keyed by name
	categories  map[string]domain.Category   // keyed by name
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{
		departments: map[string]domain.Department{},
		categories:  map[string]domain.Category{},
	}
}

func (r *fakeDepartmentRepo) addDepartment(id, name string) {
	r.departments[name] = domain.Department{ID: id, Name: name, IsActive: true}
}

func (r *fakeDepartmentRepo) addCategory(id, name, departmentID string) {
	r.categories[name] = domain.Category{ID: id, Name: name, DepartmentID: departmentID, IsActive: true}
}

func (r *fakeDepartmentRepo) ListDepartments(_ context.Context) ([]domain.Department, error) {
	var result []domain.Department
	for _, d := range r.departments {
		result = append(result, d)
	}
	return result, nil
}

func (r *fakeDepartmentRepo) GetDepartmentByID(_ context.Context, id string) (*domain.Department, error) {
	for _, d := range r.departments {
		if d.ID == id {
			copied := d
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeDepartmentRepo) GetDepartmentByName(_ context.Context, name string) (*domain.Department, error) {
	if d, ok := r.departments[name]; ok {
		copied := d
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeDepartmentRepo) ListCategories(_ context.Context, _ *string) ([]domain.Category, error) {
	var result []domain.Category
	for _, c := range r.categories {
		result = append(result, c)
	}
	return result, nil
}

func (r *fakeDepartmentRepo) GetCategoryByID(_ context.Context, id string) (*domain.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			copied := c
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeDepartmentRepo) FindCategoryByName(_ context.Context, name string) (*domain.Category, error) {
	if c, ok := r.categories[name]; ok {
		copied := c
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeDepartmentRepo) ListSubCategories(_ context.Context, _ string) ([]domain.SubCategory, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users     map[string]domain.User
	staff     []string            // system-wide FirstActiveStaff order
	deptStaff map[string][]string // department-scoped FirstActiveStaff order
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}, deptStaff: map[string][]string{}}
}

func (r *fakeUserRepo) add(user domain.User) {
	r.users[user.ID] = user
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	var result []domain.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			result = append(result, user)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) FirstActiveStaff(_ context.Context, departmentID *string) (*domain.User, error) {
	ids := r.staff
	if departmentID != nil {
		ids = r.deptStaff[*departmentID]
	}
	for _, id := range ids {
		if user, ok := r.users[id]; ok && user.Active {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) EnsureAssistant(_ context.Context) (*domain.User, error) {
	for _, user := range r.users {
		if user.IsAssistant {
			copied := user
			return &copied, nil
		}
	}
	assistant := domain.User{
		ID:          "assistant",
		Name:        "AI Assistant",
		Email:       domain.AssistantEmail,
		AccessLevel: domain.AccessLevelStaff,
		Active:      true,
		IsAssistant: true,
	}
	r.users[assistant.ID] = assistant
	return &assistant, nil
}

type fakeAnalysisRepo struct {
	analyses map[string]domain.AIAnalysis // keyed by ticket ID
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{analyses: map[string]domain.AIAnalysis{}}
}

func (r *fakeAnalysisRepo) Upsert(_ context.Context, analysis *domain.AIAnalysis) error {
	if existing, ok := r.analyses[analysis.TicketID]; ok {
		analysis.ID = existing.ID
	} else {
		analysis.ID = fmt.Sprintf("analysis-%d", len(r.analyses)+1)
	}
	analysis.UpdatedAt = time.Now().UTC()
	r.analyses[analysis.TicketID] = *analysis
	return nil
}

func (r *fakeAnalysisRepo) GetByTicket(_ context.Context, ticketID string) (*domain.AIAnalysis, error) {
	analysis, ok := r.analyses[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := analysis
	return &copied, nil
}

type fakeFeedbackRepo struct {
	feedback []domain.AIFeedback
	metrics  domain.AccuracyMetrics
}

func (r *fakeFeedbackRepo) Create(_ context.Context, feedback *domain.AIFeedback) error {
	feedback.ID = fmt.Sprintf("feedback-%d", len(r.feedback)+1)
	feedback.CreatedAt = time.Now().UTC()
	r.feedback = append(r.feedback, *feedback)
	return nil
}

func (r *fakeFeedbackRepo) Accuracy(_ context.Context) (*domain.AccuracyMetrics, error) {
	copied := r.metrics
	copied.FeedbackCount = len(r.feedback)
	return &copied, nil
}

// fakeProvider is a scripted ai.Client.
type fakeProvider struct {
	available  bool
	suggestion *ai.Suggestion
	reply      string
	escalation *ai.Escalation
	resolved   bool
	err        error
}

func (p *fakeProvider) Available() bool { return p.available }

func (p *fakeProvider) SuggestFields(_ context.Context, _, _ string) (*ai.Suggestion, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.suggestion, nil
}

func (p *fakeProvider) GenerateInitialResponse(_ context.Context, _ *domain.Ticket, _ string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *fakeProvider) GenerateConversationReply(_ context.Context, _ *domain.Ticket, _ []domain.TicketComment, _ map[string]string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *fakeProvider) GenerateEscalation(_ context.Context, _ *domain.Ticket, _ []domain.TicketComment, _ map[string]string) (*ai.Escalation, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.escalation, nil
}

func (p *fakeProvider) DetectResolution(_ context.Context, _ string) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	return p.resolved, nil
}
