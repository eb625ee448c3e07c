package podanie

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/podanie"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/shifttype"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/pdf"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/placeholder"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/grafik-backend-go/internal/repository/postgresql"
)

type PodanieServiceImpl struct {
	tx           postgresql.Transactor
	requests     podanie.RequestRepository
	templates    podanie.TemplateRepository
	dictionaries podanie.DictionaryRepository
	users        user.UserRepository
	shiftTypes   shifttype.ShiftTypeRepository
	departments  department.DepartmentRepository
	memberships  department.MembershipRepository
	settings     settings.SettingsService
	renderer     *pdf.Renderer
	mailer       email.EmailService
	metrics      *metrics.Metrics
	baseURL      string

	now func() time.Time
	// async runs side effects that must not hold up the response.
	async func(func())
}

func NewPodanieService(
	tx postgresql.Transactor,
	requestRepository podanie.RequestRepository,
	templateRepository podanie.TemplateRepository,
	dictionaryRepository podanie.DictionaryRepository,
	userRepository user.UserRepository,
	shiftTypeRepository shifttype.ShiftTypeRepository,
	departmentRepository department.DepartmentRepository,
	membershipRepository department.MembershipRepository,
	settingsService settings.SettingsService,
	renderer *pdf.Renderer,
	mailer email.EmailService,
	m *metrics.Metrics,
	baseURL string,
) podanie.PodanieService {
	return &PodanieServiceImpl{
		tx:           tx,
		requests:     requestRepository,
		templates:    templateRepository,
		dictionaries: dictionaryRepository,
		users:        userRepository,
		shiftTypes:   shiftTypeRepository,
		departments:  departmentRepository,
		memberships:  membershipRepository,
		settings:     settingsService,
		renderer:     renderer,
		mailer:       mailer,
		metrics:      m,
		baseURL:      strings.TrimRight(baseURL, "/"),
		now:          time.Now,
		async:        func(f func()) { go f() },
	}
}

// access loads the memberships of userID for permission checks.
func (s *PodanieServiceImpl) access(ctx context.Context, viewer auth.Principal) (department.Access, error) {
	ms, err := s.memberships.ListByUser(ctx, viewer.UserID)
	if err != nil {
		return department.Access{}, fmt.Errorf("load memberships: %w", err)
	}
	a := department.Access{UserID: viewer.UserID, IsAdmin: viewer.IsAdmin, Memberships: make(map[int64]department.Membership, len(ms))}
	for _, m := range ms {
		a.Memberships[m.DepartmentID] = m
	}
	return a, nil
}

// resolveTarget returns the user a request is filed for. Employees file for
// themselves; admins and heads of one of the target's departments may file
// on their behalf.
func (s *PodanieServiceImpl) resolveTarget(ctx context.Context, viewer auth.Principal, employeeID int64) (user.User, []department.Membership, error) {
	if employeeID == 0 {
		employeeID = viewer.UserID
	}
	target, err := s.users.GetByID(ctx, employeeID)
	if err != nil {
		return user.User{}, nil, err
	}
	memberships, err := s.memberships.ListByUser(ctx, employeeID)
	if err != nil {
		return user.User{}, nil, err
	}
	if employeeID == viewer.UserID || viewer.IsAdmin {
		return target, memberships, nil
	}

	access, err := s.access(ctx, viewer)
	if err != nil {
		return user.User{}, nil, err
	}
	for _, m := range memberships {
		if access.CanEdit(m.DepartmentID) {
			return target, memberships, nil
		}
	}
	return user.User{}, nil, podanie.ErrForbidden
}

// homeDepartment picks the main department, else the first one.
func (s *PodanieServiceImpl) homeDepartment(ctx context.Context, memberships []department.Membership) (department.Department, error) {
	if len(memberships) == 0 {
		return department.Department{}, podanie.ErrNoDepartment
	}
	chosen := memberships[0]
	for _, m := range memberships {
		if m.IsMain {
			chosen = m
			break
		}
	}
	return s.departments.GetByID(ctx, chosen.DepartmentID)
}

// templateFor returns the template used by cells of the shift type. Types
// without a template of their own use the built-in legacy kinds.
func (s *PodanieServiceImpl) templateFor(ctx context.Context, shiftTypeID *int64) (podanie.Template, string, error) {
	if shiftTypeID == nil {
		return podanie.LegacyTemplate(podanie.LegacyLeave), podanie.LegacyLeave, nil
	}
	st, err := s.shiftTypes.GetByID(ctx, *shiftTypeID)
	if err != nil {
		return podanie.Template{}, "", err
	}
	return s.templateOf(ctx, st.TemplateID, st.LegacyTemplate)
}

func (s *PodanieServiceImpl) templateOf(ctx context.Context, templateID *int64, legacy *string) (podanie.Template, string, error) {
	if templateID != nil {
		t, err := s.templates.GetByID(ctx, *templateID)
		if err != nil {
			return podanie.Template{}, "", err
		}
		return t, shifttype.TemplateKey(templateID, nil), nil
	}
	kind := ""
	if legacy != nil {
		kind = *legacy
	}
	kind = podanie.NormalizeLegacy(kind)
	return podanie.LegacyTemplate(kind), kind, nil
}

func (s *PodanieServiceImpl) dictionary(ctx context.Context, kind podanie.DictionaryKind) ([]podanie.DictionaryItemResponse, error) {
	items, err := s.dictionaries.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]podanie.DictionaryItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, podanie.NewDictionaryItemResponse(i))
	}
	return out, nil
}

// Form implements podanie.PodanieService.
func (s *PodanieServiceImpl) Form(ctx context.Context, viewer auth.Principal, req podanie.FormRequest) (podanie.FormResponse, error) {
	target, memberships, err := s.resolveTarget(ctx, viewer, req.EmployeeID)
	if err != nil {
		return podanie.FormResponse{}, err
	}
	tmpl, key, err := s.templateFor(ctx, req.ShiftTypeID)
	if err != nil {
		return podanie.FormResponse{}, err
	}

	today := s.now().Format(validator.DateLayout)
	resp := podanie.FormResponse{
		EmployeeID:   target.ID,
		EmployeeName: target.FullName,
		Address:      target.AddressOrEmpty(),
		EditAddress:  target.ID == viewer.UserID,
		ShiftTypeID:  req.ShiftTypeID,
		TemplateName: tmpl.Name,
		TemplateKey:  key,
		Fields:       tmpl.FormFields,
		DateFrom:     req.DateFrom,
		DateTo:       req.DateTo,
	}
	if resp.Fields == nil {
		resp.Fields = []string{}
	}
	if resp.DateFrom == "" {
		resp.DateFrom = today
	}
	if resp.DateTo == "" {
		resp.DateTo = today
	}

	dept, err := s.homeDepartment(ctx, memberships)
	if err != nil && !errors.Is(err, podanie.ErrNoDepartment) {
		return podanie.FormResponse{}, err
	}
	resp.DepartmentID = dept.ID
	resp.DepartmentName = dept.Name

	if tmpl.Enables(podanie.FieldRequestKind) {
		if resp.RequestKinds, err = s.dictionary(ctx, podanie.DictRequestKinds); err != nil {
			return podanie.FormResponse{}, err
		}
	}
	if tmpl.Enables(podanie.FieldLeaveKind) {
		if resp.LeaveKinds, err = s.dictionary(ctx, podanie.DictLeaveKinds); err != nil {
			return podanie.FormResponse{}, err
		}
	}
	if tmpl.Enables(podanie.FieldSubstitute) && dept.ID != 0 {
		members, err := s.memberships.ListMembers(ctx, dept.ID, false)
		if err != nil {
			return podanie.FormResponse{}, err
		}
		resp.Coworkers = make([]podanie.Coworker, 0, len(members))
		for _, m := range members {
			if m.UserID != target.ID {
				resp.Coworkers = append(resp.Coworkers, podanie.Coworker{ID: m.UserID, FullName: m.FullName})
			}
		}
	}

	return resp, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

// Create implements podanie.PodanieService. Only the fields the template
// enables are stored; the signature is always kept.
func (s *PodanieServiceImpl) Create(ctx context.Context, viewer auth.Principal, req podanie.CreateRequest) (podanie.RequestResponse, error) {
	from, ok := validator.IsValidDate(req.DateFrom)
	if !ok {
		return podanie.RequestResponse{}, validator.ValidationErrors{{Field: "date_from", Message: "date_from must be in YYYY-MM-DD format"}}
	}
	to, ok := validator.IsValidDate(req.DateTo)
	if !ok {
		return podanie.RequestResponse{}, validator.ValidationErrors{{Field: "date_to", Message: "date_to must be in YYYY-MM-DD format"}}
	}
	if from.After(to) {
		return podanie.RequestResponse{}, podanie.ErrInvalidDateRange
	}

	target, memberships, err := s.resolveTarget(ctx, viewer, req.EmployeeID)
	if err != nil {
		return podanie.RequestResponse{}, err
	}
	dept, err := s.homeDepartment(ctx, memberships)
	if err != nil {
		return podanie.RequestResponse{}, err
	}
	tmpl, _, err := s.templateFor(ctx, req.ShiftTypeID)
	if err != nil {
		return podanie.RequestResponse{}, err
	}

	r := podanie.Request{
		UserID:       target.ID,
		DepartmentID: dept.ID,
		ShiftTypeID:  req.ShiftTypeID,
		DateFrom:     from,
		DateTo:       to,
		Signature:    trimmed(req.Signature),
	}
	if tmpl.Enables(podanie.FieldSubstitute) {
		r.Substitute = trimmed(req.Substitute)
	}
	if tmpl.Enables(podanie.FieldPhone) {
		r.Phone = trimmed(req.Phone)
	}
	if tmpl.Enables(podanie.FieldJustification) {
		r.Justification = trimmed(req.Justification)
	}
	if tmpl.Enables(podanie.FieldRequestKind) {
		r.RequestKindID = req.RequestKindID
	}
	if tmpl.Enables(podanie.FieldLeaveKind) {
		r.LeaveKindID = req.LeaveKindID
	}

	var created podanie.Request
	err = s.tx.Do(ctx, func(txCtx context.Context) error {
		if address := trimmed(req.Address); address != nil && target.ID == viewer.UserID {
			if err := s.users.UpdateAddress(txCtx, target.ID, *address); err != nil {
				return err
			}
		}
		var err error
		created, err = s.requests.Create(txCtx, r)
		if err != nil {
			if errors.Is(err, postgresql.ErrReferenceNotFound) {
				return podanie.ErrDictionaryNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return podanie.RequestResponse{}, err
	}

	s.metrics.RequestFiled()
	s.notifyHeads(created, tmpl.Name, viewer.UserID)

	return podanie.NewRequestResponse(created, tmpl.Name), nil
}

// notifyHeads mails the heads of the request's department, skipping the
// person who filed it.
func (s *PodanieServiceImpl) notifyHeads(r podanie.Request, title string, filedBy int64) {
	if s.mailer == nil {
		return
	}
	s.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		heads, err := s.memberships.Heads(ctx, r.DepartmentID)
		if err != nil {
			slog.Error("failed to load department heads", "error", err, "department_id", r.DepartmentID)
			return
		}
		to := make([]string, 0, len(heads))
		for _, h := range heads {
			if h.UserID != filedBy && h.Email != "" {
				to = append(to, h.Email)
			}
		}
		if len(to) == 0 {
			return
		}

		err = s.mailer.SendRequestFiled(to, email.RequestFiledData{
			EmployeeName:   r.UserName,
			Title:          title,
			DepartmentName: r.DepartmentName,
			DateFrom:       r.DateFrom.Format("02.01.2006"),
			DateTo:         r.DateTo.Format("02.01.2006"),
			Link:           fmt.Sprintf("%s/api/v1/podania/%d/pdf", s.baseURL, r.ID),
		})
		if err != nil {
			slog.Error("failed to notify department heads", "error", err, "request_id", r.ID)
		}
	})
}

// title names the request after its template.
func (s *PodanieServiceImpl) title(r podanie.Request, names map[int64]string) string {
	if r.TemplateID != nil {
		if name, ok := names[*r.TemplateID]; ok {
			return name
		}
	}
	kind := ""
	if r.LegacyTemplate != nil {
		kind = *r.LegacyTemplate
	}
	return podanie.LegacyLabel(kind)
}

func (s *PodanieServiceImpl) templateNames(ctx context.Context) (map[int64]string, error) {
	templates, err := s.templates.List(ctx, false)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(templates))
	for _, t := range templates {
		names[t.ID] = t.Name
	}
	return names, nil
}

// List implements podanie.PodanieService. Admins see every request, heads
// the requests of their departments plus their own, others only their own.
func (s *PodanieServiceImpl) List(ctx context.Context, viewer auth.Principal) ([]podanie.RequestResponse, error) {
	scope := podanie.ListScope{UserID: viewer.UserID}
	if viewer.IsAdmin {
		scope.All = true
	} else {
		access, err := s.access(ctx, viewer)
		if err != nil {
			return nil, err
		}
		scope.DepartmentIDs = access.HeadedDepartments()
	}

	requests, err := s.requests.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	names, err := s.templateNames(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]podanie.RequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, podanie.NewRequestResponse(r, s.title(r, names)))
	}
	return out, nil
}

// load returns the request when the viewer is its owner, an admin or a
// head of its department.
func (s *PodanieServiceImpl) load(ctx context.Context, viewer auth.Principal, id int64) (podanie.Request, error) {
	r, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return podanie.Request{}, err
	}
	if r.UserID == viewer.UserID || viewer.IsAdmin {
		return r, nil
	}
	access, err := s.access(ctx, viewer)
	if err != nil {
		return podanie.Request{}, err
	}
	if !access.CanEdit(r.DepartmentID) {
		return podanie.Request{}, podanie.ErrForbidden
	}
	return r, nil
}

// Get implements podanie.PodanieService.
func (s *PodanieServiceImpl) Get(ctx context.Context, viewer auth.Principal, id int64) (podanie.RequestResponse, error) {
	r, err := s.load(ctx, viewer, id)
	if err != nil {
		return podanie.RequestResponse{}, err
	}
	names, err := s.templateNames(ctx)
	if err != nil {
		return podanie.RequestResponse{}, err
	}
	return podanie.NewRequestResponse(r, s.title(r, names)), nil
}

// Delete implements podanie.PodanieService.
func (s *PodanieServiceImpl) Delete(ctx context.Context, viewer auth.Principal, id int64) error {
	if _, err := s.load(ctx, viewer, id); err != nil {
		return err
	}
	return s.requests.Delete(ctx, id)
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// PDF implements podanie.PodanieService.
func (s *PodanieServiceImpl) PDF(ctx context.Context, viewer auth.Principal, id int64) (string, []byte, error) {
	r, err := s.load(ctx, viewer, id)
	if err != nil {
		return "", nil, err
	}
	tmpl, _, err := s.templateOf(ctx, r.TemplateID, r.LegacyTemplate)
	if err != nil {
		return "", nil, err
	}
	company, err := s.settings.Get(ctx)
	if err != nil {
		return "", nil, err
	}

	body := placeholder.Replace(tmpl.BodyHTML, placeholder.Data{
		FullName:       r.UserName,
		Address:        deref(r.UserAddress),
		DateFrom:       r.DateFrom,
		DateTo:         r.DateTo,
		SubmittedAt:    r.CreatedAt,
		CompanyName:    company.CompanyName,
		CompanyAddress: company.CompanyAddress,
		Substitute:     deref(r.Substitute),
		Phone:          deref(r.Phone),
		Justification:  deref(r.Justification),
		Signature:      deref(r.Signature),
		RequestKind:    deref(r.RequestKindName),
		LeaveKind:      deref(r.LeaveKindName),
		DepartmentName: r.DepartmentName,
	})

	var logo *pdf.Logo
	if data, typ, err := s.settings.Logo(ctx); err != nil {
		return "", nil, err
	} else if len(data) > 0 {
		logo = &pdf.Logo{Data: data, Type: typ}
	}

	doc, err := s.renderer.Document(body, logo)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("podanie_%d.pdf", r.ID), doc, nil
}

// RequestsByCell implements podanie.PodanieService. When requests overlap
// the later one wins the cell.
func (s *PodanieServiceImpl) RequestsByCell(ctx context.Context, departmentID int64, year int, month time.Month) (map[string]int64, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	requests, err := s.requests.Overlapping(ctx, departmentID, first, last)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64)
	for _, r := range requests {
		day := r.DateFrom
		if day.Before(first) {
			day = first
		}
		end := r.DateTo
		if end.After(last) {
			end = last
		}
		for ; !day.After(end); day = day.AddDate(0, 0, 1) {
			out[grafik.RequestKey(r.UserID, day.Day())] = r.ID
		}
	}
	return out, nil
}
