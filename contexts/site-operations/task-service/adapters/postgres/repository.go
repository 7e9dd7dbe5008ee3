package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"zodchiy/contexts/site-operations/task-service/domain/entities"
	domainerrors "zodchiy/contexts/site-operations/task-service/domain/errors"
	"zodchiy/contexts/site-operations/task-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Models returns the gorm models owned by this adapter, for schema migration.
func Models() []any {
	return []any{&taskModel{}, &taskEvidenceModel{}}
}

func (r *Repository) CreateTask(ctx context.Context, task entities.Task) error {
	row := taskModelFromEntity(task)
	if row.Version == 0 {
		row.Version = 1
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if hasPgCode(err, pgUniqueViolation) {
			return domainerrors.ErrInvalidTaskInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetTask(ctx context.Context, taskID string) (entities.Task, error) {
	var row taskModel
	err := r.db.WithContext(ctx).
		Where("task_id = ?", strings.TrimSpace(taskID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Task{}, domainerrors.ErrTaskNotFound
		}
		return entities.Task{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListTasks(ctx context.Context, filter ports.TaskFilter) ([]entities.Task, error) {
	tx := r.db.WithContext(ctx).Model(&taskModel{})
	if strings.TrimSpace(filter.ProjectID) != "" {
		tx = tx.Where("project_id = ?", strings.TrimSpace(filter.ProjectID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []taskModel
	if err := tx.Order("created_at DESC").Order("task_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Task, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// UpdateTask writes status, both comments and the bumped version in one
// statement guarded by the expected version.
func (r *Repository) UpdateTask(ctx context.Context, task entities.Task, expectedVersion int64) (entities.Task, error) {
	taskID := strings.TrimSpace(task.TaskID)
	var saved taskModel
	result := r.db.WithContext(ctx).
		Model(&saved).
		Clauses(clause.Returning{}).
		Where("task_id = ?", taskID).
		Where("version = ?", expectedVersion).
		Updates(map[string]any{
			"status":             string(task.Status),
			"foreman_comment":    task.ForemanComment,
			"supervisor_comment": task.SupervisorComment,
			"title":              strings.TrimSpace(task.Title),
			"description":        strings.TrimSpace(task.Description),
			"version":            gorm.Expr("version + 1"),
			"updated_at":         task.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return entities.Task{}, result.Error
	}
	if result.RowsAffected > 0 {
		return saved.toEntity(), nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&taskModel{}).
		Where("task_id = ?", taskID).
		Count(&count).
		Error; err != nil {
		return entities.Task{}, err
	}
	if count == 0 {
		return entities.Task{}, domainerrors.ErrTaskNotFound
	}
	r.logger.Warn("task update lost version race",
		"event", "task_update_version_conflict",
		"module", "site-operations/task-service",
		"layer", "adapter",
		"task_id", taskID,
		"expected_version", expectedVersion,
	)
	return entities.Task{}, domainerrors.ErrConcurrentModification
}

func (r *Repository) AddEvidence(ctx context.Context, evidence entities.Evidence) error {
	row := taskEvidenceModel{
		EvidenceID:    strings.TrimSpace(evidence.EvidenceID),
		TaskID:        strings.TrimSpace(evidence.TaskID),
		ImageURL:      strings.TrimSpace(evidence.ImageURL),
		AddedByUserID: strings.TrimSpace(evidence.AddedByID),
		CreatedAt:     evidence.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		switch {
		case hasPgCode(err, pgForeignKeyViolation):
			return domainerrors.ErrTaskNotFound
		case hasPgCode(err, pgUniqueViolation):
			return domainerrors.ErrInvalidEvidenceInput
		}
		return err
	}
	return nil
}

func (r *Repository) ListEvidence(ctx context.Context, taskID string) ([]entities.Evidence, error) {
	var rows []taskEvidenceModel
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", strings.TrimSpace(taskID)).
		Order("created_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Evidence, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.Evidence{
			EvidenceID: row.EvidenceID,
			TaskID:     row.TaskID,
			ImageURL:   row.ImageURL,
			AddedByID:  row.AddedByUserID,
			CreatedAt:  row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) EvidenceCount(ctx context.Context, taskID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&taskEvidenceModel{}).
		Where("task_id = ?", strings.TrimSpace(taskID)).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

type taskModel struct {
	TaskID            string    `gorm:"column:task_id;primaryKey"`
	ProjectID         string    `gorm:"column:project_id;index"`
	Title             string    `gorm:"column:title;not null"`
	Description       string    `gorm:"column:description"`
	Status            string    `gorm:"column:status;not null;default:todo;check:status IN ('todo','in_progress','review','done','rework')"`
	ForemanComment    string    `gorm:"column:foreman_comment"`
	SupervisorComment string    `gorm:"column:supervisor_comment"`
	Version           int64     `gorm:"column:version;not null;default:1"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (taskModel) TableName() string {
	return "tasks"
}

func taskModelFromEntity(item entities.Task) taskModel {
	return taskModel{
		TaskID:            strings.TrimSpace(item.TaskID),
		ProjectID:         strings.TrimSpace(item.ProjectID),
		Title:             strings.TrimSpace(item.Title),
		Description:       strings.TrimSpace(item.Description),
		Status:            string(item.Status),
		ForemanComment:    item.ForemanComment,
		SupervisorComment: item.SupervisorComment,
		Version:           item.Version,
		CreatedAt:         item.CreatedAt.UTC(),
		UpdatedAt:         item.UpdatedAt.UTC(),
	}
}

func (m taskModel) toEntity() entities.Task {
	return entities.Task{
		TaskID:            m.TaskID,
		ProjectID:         m.ProjectID,
		Title:             m.Title,
		Description:       m.Description,
		Status:            entities.TaskStatus(m.Status),
		ForemanComment:    m.ForemanComment,
		SupervisorComment: m.SupervisorComment,
		Version:           m.Version,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

type taskEvidenceModel struct {
	EvidenceID    string    `gorm:"column:evidence_id;primaryKey"`
	TaskID        string    `gorm:"column:task_id;index;not null"`
	Task          taskModel `gorm:"foreignKey:TaskID;references:TaskID;constraint:OnDelete:CASCADE"`
	ImageURL      string    `gorm:"column:image_url;not null"`
	AddedByUserID string    `gorm:"column:added_by_user_id"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (taskEvidenceModel) TableName() string {
	return "task_evidence"
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
