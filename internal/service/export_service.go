package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Yayabtw/ishak-school-new/internal/models"
	appErrors "github.com/Yayabtw/ishak-school-new/pkg/errors"
	"github.com/Yayabtw/ishak-school-new/pkg/export"
)

// Export entity and format identifiers accepted by the export endpoint.
const (
	ExportEntityTeachers    = "teachers"
	ExportEntityStudents    = "students"
	ExportEntityCourses     = "courses"
	ExportEntityEnrollments = "enrollments"

	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Enabled bool
	MaxRows int
}

// ExportResult carries a rendered export payload.
type ExportResult struct {
	Payload     []byte
	Filename    string
	ContentType string
}

// ExportService renders entity listings as downloadable CSV or PDF files.
type ExportService struct {
	teachers    teacherRepository
	students    studentRepository
	courses     courseRepository
	enrollments enrollmentRepository
	csv         csvRenderer
	pdf         pdfRenderer
	cfg         ExportConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(teachers teacherRepository, students studentRepository, courses courseRepository, enrollments enrollmentRepository, cfg ExportConfig, logger *zap.Logger, now func() time.Time) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 1000
	}
	if now == nil {
		now = defaultNow
	}
	return &ExportService{
		teachers:    teachers,
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		cfg:         cfg,
		logger:      logger,
		now:         now,
	}
}

// Generate builds the dataset for the requested entity and renders it in the
// requested format.
func (s *ExportService) Generate(ctx context.Context, entity, format string) (*ExportResult, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Les exports sont désactivés")
	}

	dataset, title, err := s.buildDataset(ctx, entity)
	if err != nil {
		return nil, err
	}

	var payload []byte
	var contentType string
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Format d'export inconnu : %s", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("%s_%s.%s", entity, s.now().Format("20060102_150405"), format)
	s.logger.Info("export generated", zap.String("entity", entity), zap.String("format", format), zap.Int("rows", len(dataset.Rows)))
	return &ExportResult{Payload: payload, Filename: filename, ContentType: contentType}, nil
}

func (s *ExportService) buildDataset(ctx context.Context, entity string) (export.Dataset, string, error) {
	switch entity {
	case ExportEntityTeachers:
		return s.buildTeacherDataset(ctx)
	case ExportEntityStudents:
		return s.buildStudentDataset(ctx)
	case ExportEntityCourses:
		return s.buildCourseDataset(ctx)
	case ExportEntityEnrollments:
		return s.buildEnrollmentDataset(ctx)
	default:
		return export.Dataset{}, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Entité d'export inconnue : %s", entity))
	}
}

func (s *ExportService) buildTeacherDataset(ctx context.Context) (export.Dataset, string, error) {
	teachers, _, err := s.teachers.List(ctx, models.TeacherFilter{PageSize: s.cfg.MaxRows})
	if err != nil {
		return export.Dataset{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	rows := make([]map[string]string, 0, len(teachers))
	for i := range teachers {
		t := &teachers[i]
		rows = append(rows, map[string]string{
			"ID":         strconv.FormatInt(t.ID, 10),
			"Nom":        t.FullName(),
			"Email":      t.Email,
			"Téléphone":  derefString(t.Phone),
			"Spécialité": t.Speciality,
		})
	}
	dataset := export.Dataset{
		Headers: []string{"ID", "Nom", "Email", "Téléphone", "Spécialité"},
		Rows:    rows,
	}
	return dataset, "Liste des enseignants", nil
}

func (s *ExportService) buildStudentDataset(ctx context.Context) (export.Dataset, string, error) {
	students, _, err := s.students.List(ctx, models.StudentFilter{PageSize: s.cfg.MaxRows})
	if err != nil {
		return export.Dataset{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	rows := make([]map[string]string, 0, len(students))
	for i := range students {
		st := &students[i]
		rows = append(rows, map[string]string{
			"ID":                strconv.FormatInt(st.ID, 10),
			"Numéro étudiant":   st.StudentNumber,
			"Nom":               st.FullName(),
			"Email":             st.Email,
			"Date de naissance": formatOptionalDate(st.BirthDate),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"ID", "Numéro étudiant", "Nom", "Email", "Date de naissance"},
		Rows:    rows,
	}
	return dataset, "Liste des étudiants", nil
}

func (s *ExportService) buildCourseDataset(ctx context.Context) (export.Dataset, string, error) {
	courses, _, err := s.courses.List(ctx, models.CourseFilter{PageSize: s.cfg.MaxRows})
	if err != nil {
		return export.Dataset{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	rows := make([]map[string]string, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		rows = append(rows, map[string]string{
			"Code":       c.Code,
			"Nom":        c.Name,
			"Crédits":    strconv.Itoa(c.Credits),
			"Semestre":   fmt.Sprintf("%s %d", c.Semester, c.Year),
			"Enseignant": c.TeacherFullName(),
			"Inscrits":   strconv.Itoa(c.EnrollmentCount),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Code", "Nom", "Crédits", "Semestre", "Enseignant", "Inscrits"},
		Rows:    rows,
	}
	return dataset, "Liste des cours", nil
}

func (s *ExportService) buildEnrollmentDataset(ctx context.Context) (export.Dataset, string, error) {
	enrollments, _, err := s.enrollments.List(ctx, models.EnrollmentFilter{PageSize: s.cfg.MaxRows})
	if err != nil {
		return export.Dataset{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	rows := make([]map[string]string, 0, len(enrollments))
	for i := range enrollments {
		e := &enrollments[i]
		rows = append(rows, map[string]string{
			"Étudiant": e.StudentFullName(),
			"Cours":    fmt.Sprintf("%s (%s)", e.CourseName, e.CourseCode),
			"Date":     e.EnrollmentDate.UTC().Format("2006-01-02"),
			"Statut":   e.Status,
			"Note":     formatOptionalGrade(e.Grade),
			"Mention":  derefString(e.Mention()),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Étudiant", "Cours", "Date", "Statut", "Note", "Mention"},
		Rows:    rows,
	}
	return dataset, "Liste des inscriptions", nil
}

func derefString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func formatOptionalGrade(grade *float64) string {
	if grade == nil {
		return ""
	}
	return fmt.Sprintf("%.1f/20", *grade)
}
