// Package service contains the business logic of the approval engine and the
// gradebook. Services hold no state across requests; every operation re-reads
// current rows, decides, and writes back.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"sahkan/internal/cache"
	"sahkan/internal/drive"
	"sahkan/internal/middleware"
	"sahkan/internal/models"
	"sahkan/internal/observability"
	"sahkan/internal/repository"
)

// defaultRevisionNote is stored as remarks when a reset is requested without
// caller-supplied notes.
const defaultRevisionNote = "Dokumen dikembalikan untuk ditinjau ulang"

// FileRef addresses a file the composite way approval rows do.
type FileRef struct {
	FileID      string `json:"fileId"`
	WorkspaceID string `json:"workspaceId"`
	OwnerID     string `json:"ownerId"`
}

// AssignFailure reports one approver that could not be assigned.
type AssignFailure struct {
	ApproverID string `json:"approverId"`
	Reason     string `json:"reason"`
}

// AssignResult is the per-item outcome of a batch assignment.
type AssignResult struct {
	ProcessID string          `json:"processId"`
	Assigned  []string        `json:"assigned"`
	Failed    []AssignFailure `json:"failed"`
}

// ResubmitInput carries a same-process resubmission. Content is nil when the
// assigner only supplies new notes.
type ResubmitInput struct {
	Ref       FileRef
	ProcessID string
	Notes     string
	FileName  string
	MimeType  string
	Content   io.Reader
}

// ReplaceInput carries a cancel-and-replace. Content is mandatory.
type ReplaceInput struct {
	Ref         FileRef
	ProcessID   string
	ApproverIDs []string
	Notes       string
	FileName    string
	MimeType    string
	Content     io.Reader
}

// ProcessSummary is one row of the paginated process list.
type ProcessSummary struct {
	ProcessID      string            `json:"processId"`
	FileID         string            `json:"fileId"`
	WorkspaceID    string            `json:"workspaceId"`
	OwnerID        string            `json:"ownerId"`
	FileName       string            `json:"fileName"`
	MimeType       string            `json:"mimeType,omitempty"`
	OverallStatus  string            `json:"overallStatus"`
	Approvals      []models.Approval `json:"approvals"`
	CreatedAt      time.Time         `json:"createdAt"`
	LastActivityAt time.Time         `json:"lastActivityAt"`
}

// ActivityEntry is one line of a process's merged activity log.
type ActivityEntry struct {
	At      time.Time `json:"at"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
}

// ProcessDetail is the full view of one process.
type ProcessDetail struct {
	ProcessID      string            `json:"processId"`
	FileID         string            `json:"fileId"`
	WorkspaceID    string            `json:"workspaceId"`
	OwnerID        string            `json:"ownerId"`
	FileName       string            `json:"fileName"`
	MimeType       string            `json:"mimeType,omitempty"`
	Description    string            `json:"description,omitempty"`
	PengesahanPada *time.Time        `json:"pengesahanPada"`
	OverallStatus  string            `json:"overallStatus"`
	Approvals      []models.Approval `json:"approvals"`
	Activity       []ActivityEntry   `json:"activity"`
}

// ApprovalService implements the document approval lifecycle.
type ApprovalService struct {
	approvals     repository.ApprovalRepository
	files         repository.FileRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	store         drive.Store

	// clearRemarksOnApprove controls whether an approval wipes previously
	// stored remarks. Off by default: prior remarks stay as history.
	clearRemarksOnApprove bool

	now          func() time.Time
	newProcessID func() string
}

// NewApprovalService creates the approval service.
func NewApprovalService(
	approvals repository.ApprovalRepository,
	files repository.FileRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	store drive.Store,
	clearRemarksOnApprove bool,
) *ApprovalService {
	return &ApprovalService{
		approvals:             approvals,
		files:                 files,
		users:                 users,
		notifications:         notifications,
		store:                 store,
		clearRemarksOnApprove: clearRemarksOnApprove,
		now:                   time.Now,
		newProcessID:          uuid.NewString,
	}
}

// Assign creates one approval row per approver under a fresh process id.
// Individual failures do not abort the batch; the result reports both sides.
func (s *ApprovalService) Assign(ctx context.Context, assignerID string, ref FileRef, approverIDs []string) (*AssignResult, error) {
	if len(approverIDs) == 0 {
		return nil, models.NewValidationError("at least one approver is required")
	}

	assigner, err := s.users.GetByID(ctx, assignerID)
	if err != nil {
		return nil, err
	}
	if !assigner.IsAdmin {
		return nil, models.NewUnauthorizedError("only admins can assign approvals")
	}

	file, err := s.files.GetByRef(ctx, ref.WorkspaceID, ref.OwnerID, ref.FileID)
	if err != nil {
		return nil, err
	}

	return s.createBatch(ctx, assigner, file, approverIDs), nil
}

// createBatch inserts rows one at a time so one bad approver does not sink
// the rest, then notifies every approver that got a row.
func (s *ApprovalService) createBatch(ctx context.Context, assigner *models.User, file *models.File, approverIDs []string) *AssignResult {
	result := &AssignResult{
		ProcessID: s.newProcessID(),
		Assigned:  []string{},
		Failed:    []AssignFailure{},
	}
	fileName := s.fileDisplayName(ctx, file.ID)

	var notes []models.Notification
	for _, approverID := range approverIDs {
		approverID = strings.TrimSpace(approverID)
		if approverID == "" {
			result.Failed = append(result.Failed, AssignFailure{ApproverID: approverID, Reason: "approver id must not be empty"})
			continue
		}

		row := &models.Approval{
			ProcessID:    result.ProcessID,
			ApproverID:   approverID,
			AssignedByID: assigner.ID,
			FileID:       file.ID,
			WorkspaceID:  file.WorkspaceID,
			OwnerID:      file.OwnerID,
			Status:       models.ApprovalStatusPending,
		}
		if err := s.approvals.Create(ctx, row); err != nil {
			result.Failed = append(result.Failed, AssignFailure{ApproverID: approverID, Reason: assignFailureReason(err)})
			continue
		}

		result.Assigned = append(result.Assigned, approverID)
		notes = append(notes, models.Notification{
			RecipientID: approverID,
			Message:     fmt.Sprintf("%s menugaskan Anda meninjau dokumen %q", assigner.Name, fileName),
			Type:        models.NotificationTypeAssignment,
			Link:        "/approvals/" + result.ProcessID,
			ProcessID:   result.ProcessID,
		})
	}

	s.notify(ctx, notes)
	return result
}

func assignFailureReason(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return "approver not found"
		case "CONFLICT":
			return "approver already assigned to this process"
		}
	}
	return "constraint violated"
}

// Decide transitions one (process, approver) row to "Sah" or "Perlu Revisi".
func (s *ApprovalService) Decide(ctx context.Context, actorID, processID, approverID string, status models.ApprovalStatus, remarks string) (*models.Approval, error) {
	if actorID != approverID {
		return nil, models.NewUnauthorizedError("only the assigned approver can act on this approval")
	}
	if status != models.ApprovalStatusApproved && status != models.ApprovalStatusRevision {
		return nil, models.NewValidationError(fmt.Sprintf("status must be %q or %q", models.ApprovalStatusApproved, models.ApprovalStatusRevision))
	}
	remarks = strings.TrimSpace(remarks)
	if status == models.ApprovalStatusRevision && remarks == "" {
		return nil, models.NewValidationError("remarks are required when requesting a revision")
	}

	row, err := s.approvals.GetByProcessAndApprover(ctx, processID, approverID)
	if err != nil {
		return nil, err
	}
	if row.Status.Terminal() {
		return nil, models.NewValidationError("approval is already final")
	}

	return s.applyDecision(ctx, row, status, remarks)
}

// applyDecision is shared by Decide and SignAndApprove so both paths run the
// identical finalization check afterward.
func (s *ApprovalService) applyDecision(ctx context.Context, row *models.Approval, status models.ApprovalStatus, remarks string) (*models.Approval, error) {
	now := s.now()
	row.Status = status
	row.ActionedAt = &now
	switch status {
	case models.ApprovalStatusRevision:
		row.Remarks = &remarks
	case models.ApprovalStatusApproved:
		if s.clearRemarksOnApprove {
			row.Remarks = nil
		}
	}

	if err := s.approvals.Update(ctx, row); err != nil {
		return nil, err
	}
	observability.ApprovalTransitions.WithLabelValues(string(status)).Inc()

	message := fmt.Sprintf("%s menandai dokumen %q sebagai %q", s.userName(ctx, row.ApproverID), s.fileDisplayName(ctx, row.FileID), status)
	if status == models.ApprovalStatusRevision {
		message += fmt.Sprintf(" dengan catatan: %s", remarks)
	}
	s.notify(ctx, []models.Notification{{
		RecipientID: row.AssignedByID,
		Message:     message,
		Type:        models.NotificationTypeDecision,
		Link:        "/approvals/" + row.ProcessID,
		ProcessID:   row.ProcessID,
	}})

	if status == models.ApprovalStatusApproved {
		if err := s.finalizeIfComplete(ctx, row.ProcessID, row.FileID); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// finalizeIfComplete sets the file's finalization stamp once every row of the
// process is "Sah". Re-running it after the stamp is set is a no-op.
func (s *ApprovalService) finalizeIfComplete(ctx context.Context, processID, fileID string) error {
	rows, err := s.approvals.ListByProcess(ctx, processID)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row.Status != models.ApprovalStatusApproved {
			return nil
		}
	}

	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file.PengesahanPada != nil {
		return nil
	}

	now := s.now()
	if err := s.files.SetPengesahan(ctx, fileID, &now); err != nil {
		return err
	}
	observability.ProcessesFinalized.Inc()
	return nil
}

// Revise resets every "Perlu Revisi" row of the file back to pending in one
// transaction. An empty match is a success with an empty list.
func (s *ApprovalService) Revise(ctx context.Context, requesterID string, ref FileRef, notes string) ([]models.Approval, error) {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin {
		return nil, models.NewUnauthorizedError("only admins can reset revisions")
	}

	if _, err := s.files.GetByRef(ctx, ref.WorkspaceID, ref.OwnerID, ref.FileID); err != nil {
		return nil, err
	}

	remarks := strings.TrimSpace(notes)
	if remarks == "" {
		remarks = defaultRevisionNote
	}

	affected, err := s.approvals.ResetRevisions(ctx, ref.WorkspaceID, ref.OwnerID, ref.FileID, remarks)
	if err != nil {
		return nil, err
	}

	s.notifyReReview(ctx, affected, remarks)
	if affected == nil {
		affected = []models.Approval{}
	}
	return affected, nil
}

// Resubmit updates the document content (when supplied) and re-opens every
// row of the process for review. Only the original assigner may do this.
func (s *ApprovalService) Resubmit(ctx context.Context, requesterID string, in ResubmitInput) ([]models.Approval, error) {
	notes := strings.TrimSpace(in.Notes)
	if in.Content == nil && notes == "" {
		return nil, models.NewValidationError("a new file or revision notes are required")
	}

	rows, err := s.approvals.ListByProcess(ctx, in.ProcessID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, models.NewNotFoundError("approval process", in.ProcessID)
	}
	if rows[0].AssignedByID != requesterID {
		return nil, models.NewUnauthorizedError("only the original assigner can resubmit this process")
	}
	if rows[0].FileID != in.Ref.FileID {
		return nil, models.NewValidationError("file reference does not match this process")
	}
	// Cancelled rows are permanent audit trail; a superseded process must not
	// come back to life next to its replacement.
	for _, row := range rows {
		if row.Status == models.ApprovalStatusCancelled || row.Status == models.ApprovalStatusSuperseded {
			return nil, models.NewConflictError("this process was cancelled and cannot be resubmitted")
		}
	}

	if in.Content != nil {
		if _, err := s.store.UpdateContent(ctx, in.Ref.FileID, in.FileName, in.MimeType, in.Content); err != nil {
			return nil, models.NewInternalError(err)
		}
		cache.InvalidateDriveMeta(ctx, in.Ref.FileID)
	}

	remarks := notes
	if remarks == "" {
		remarks = defaultRevisionNote
	}

	affected, err := s.approvals.ResetProcess(ctx, in.ProcessID, in.Ref.FileID, remarks)
	if err != nil {
		return nil, err
	}

	s.notifyReReview(ctx, affected, remarks)
	return affected, nil
}

// Replace cancels the whole process and starts a fresh one for a possibly
// different approver list, after updating the document content. Not
// idempotent: each call supersedes whatever process it found.
func (s *ApprovalService) Replace(ctx context.Context, requesterID string, in ReplaceInput) (*AssignResult, error) {
	if in.Content == nil {
		return nil, models.NewValidationError("a replacement file is required")
	}
	if len(in.ApproverIDs) == 0 {
		return nil, models.NewValidationError("at least one approver is required")
	}

	rows, err := s.approvals.ListByProcess(ctx, in.ProcessID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, models.NewNotFoundError("approval process", in.ProcessID)
	}
	if rows[0].AssignedByID != requesterID {
		return nil, models.NewUnauthorizedError("only the original assigner can replace this process")
	}
	if rows[0].FileID != in.Ref.FileID {
		return nil, models.NewValidationError("file reference does not match this process")
	}

	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	file, err := s.files.GetByRef(ctx, in.Ref.WorkspaceID, in.Ref.OwnerID, in.Ref.FileID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.UpdateContent(ctx, file.ID, in.FileName, in.MimeType, in.Content); err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateDriveMeta(ctx, file.ID)

	if _, err := s.approvals.CancelProcess(ctx, in.ProcessID, models.ApprovalStatusSuperseded); err != nil {
		return nil, err
	}
	if err := s.files.SetPengesahan(ctx, file.ID, nil); err != nil {
		return nil, err
	}

	return s.createBatch(ctx, requester, file, in.ApproverIDs), nil
}

// SignAndApprove stamps the signature into the document, then runs the same
// "Sah" transition and finalization check as Decide.
func (s *ApprovalService) SignAndApprove(ctx context.Context, actorID, processID, approverID string, signature []byte, placement drive.SignaturePlacement) (*models.Approval, error) {
	if actorID != approverID {
		return nil, models.NewUnauthorizedError("only the assigned approver can act on this approval")
	}

	row, err := s.approvals.GetByProcessAndApprover(ctx, processID, approverID)
	if err != nil {
		return nil, err
	}
	if row.Status.Terminal() {
		return nil, models.NewValidationError("approval is already final")
	}

	normalized, err := drive.NormalizeSignature(signature)
	if err != nil {
		return nil, models.NewValidationError("signature image is not a valid PNG, JPEG or WebP")
	}
	if err := s.store.StampSignature(ctx, row.FileID, normalized, placement); err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateDriveMeta(ctx, row.FileID)

	return s.applyDecision(ctx, row, models.ApprovalStatusApproved, "")
}

// ListProcesses pages over the workspace's processes, newest first, with the
// derived overall status and drive metadata. Search and status filters apply
// within the returned page.
func (s *ApprovalService) ListProcesses(ctx context.Context, workspaceID string, page, limit int, search, statusFilter string) ([]ProcessSummary, int64, error) {
	if workspaceID == "" {
		return nil, 0, models.NewValidationError("workspaceId is required")
	}

	ids, total, err := s.approvals.ListProcessIDsByWorkspace(ctx, workspaceID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.approvals.ListByProcessIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	grouped := make(map[string][]models.Approval, len(ids))
	for _, row := range rows {
		grouped[row.ProcessID] = append(grouped[row.ProcessID], row)
	}

	summaries := make([]ProcessSummary, 0, len(ids))
	for _, id := range ids {
		group := grouped[id]
		if len(group) == 0 {
			continue
		}
		summary := s.summarize(ctx, id, group)
		if !matchesFilters(summary, search, statusFilter) {
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, total, nil
}

func (s *ApprovalService) summarize(ctx context.Context, processID string, group []models.Approval) ProcessSummary {
	statuses := make([]string, len(group))
	created := group[0].CreatedAt
	lastActivity := group[0].UpdatedAt
	for i, row := range group {
		statuses[i] = string(row.Status)
		if row.CreatedAt.Before(created) {
			created = row.CreatedAt
		}
		if row.UpdatedAt.After(lastActivity) {
			lastActivity = row.UpdatedAt
		}
	}

	summary := ProcessSummary{
		ProcessID:      processID,
		FileID:         group[0].FileID,
		WorkspaceID:    group[0].WorkspaceID,
		OwnerID:        group[0].OwnerID,
		FileName:       group[0].FileID,
		OverallStatus:  OverallStatus(statuses),
		Approvals:      group,
		CreatedAt:      created,
		LastActivityAt: lastActivity,
	}
	if meta := s.fileMeta(ctx, group[0].FileID); meta != nil {
		summary.FileName = meta.Name
		summary.MimeType = meta.MimeType
	}
	return summary
}

func matchesFilters(summary ProcessSummary, search, statusFilter string) bool {
	if statusFilter != "" && ClassifyStatus(statusFilter) != ClassifyStatus(summary.OverallStatus) {
		return false
	}
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(summary.FileName), needle) {
		return true
	}
	for _, row := range summary.Approvals {
		if row.Approver != nil && strings.Contains(strings.ToLower(row.Approver.Name), needle) {
			return true
		}
	}
	return false
}

// ProcessDetail returns per-approver statuses plus an activity log merged
// from decisions and notifications, newest first.
func (s *ApprovalService) ProcessDetail(ctx context.Context, processID string) (*ProcessDetail, error) {
	rows, err := s.approvals.ListByProcess(ctx, processID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, models.NewNotFoundError("approval process", processID)
	}

	file, err := s.files.GetByID(ctx, rows[0].FileID)
	if err != nil {
		return nil, err
	}

	statuses := make([]string, len(rows))
	for i, row := range rows {
		statuses[i] = string(row.Status)
	}

	detail := &ProcessDetail{
		ProcessID:      processID,
		FileID:         file.ID,
		WorkspaceID:    file.WorkspaceID,
		OwnerID:        file.OwnerID,
		FileName:       file.ID,
		Description:    file.Description,
		PengesahanPada: file.PengesahanPada,
		OverallStatus:  OverallStatus(statuses),
		Approvals:      rows,
	}
	if meta := s.fileMeta(ctx, file.ID); meta != nil {
		detail.FileName = meta.Name
		detail.MimeType = meta.MimeType
	}

	for _, row := range rows {
		if row.ActionedAt == nil {
			continue
		}
		name := row.ApproverID
		if row.Approver != nil {
			name = row.Approver.Name
		}
		message := fmt.Sprintf("%s: %s", name, row.Status)
		if row.Remarks != nil && *row.Remarks != "" {
			message += fmt.Sprintf(" (%s)", *row.Remarks)
		}
		detail.Activity = append(detail.Activity, ActivityEntry{At: *row.ActionedAt, Kind: "decision", Message: message})
	}

	notes, err := s.notifications.ListByProcess(ctx, processID)
	if err != nil {
		return nil, err
	}
	for _, note := range notes {
		detail.Activity = append(detail.Activity, ActivityEntry{At: note.CreatedAt, Kind: "notification", Message: note.Message})
	}

	sort.Slice(detail.Activity, func(i, j int) bool {
		return detail.Activity[i].At.After(detail.Activity[j].At)
	})
	return detail, nil
}

// Inbox lists a user's own approval rows, optionally filtered by status.
func (s *ApprovalService) Inbox(ctx context.Context, approverID string, status models.ApprovalStatus, page, limit int) ([]models.Approval, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, models.NewValidationError("unknown status filter")
	}
	return s.approvals.ListForApprover(ctx, approverID, status, (page-1)*limit, limit)
}

func (s *ApprovalService) notifyReReview(ctx context.Context, affected []models.Approval, remarks string) {
	if len(affected) == 0 {
		return
	}
	notes := make([]models.Notification, len(affected))
	for i, row := range affected {
		notes[i] = models.Notification{
			RecipientID: row.ApproverID,
			Message:     fmt.Sprintf("Dokumen %q perlu ditinjau ulang: %s", s.fileDisplayName(ctx, row.FileID), remarks),
			Type:        models.NotificationTypeRevision,
			Link:        "/approvals/" + row.ProcessID,
			ProcessID:   row.ProcessID,
		}
	}
	s.notify(ctx, notes)
}

// notify writes notification rows best-effort: a failed write must not fail
// the transition that triggered it.
func (s *ApprovalService) notify(ctx context.Context, notes []models.Notification) {
	if len(notes) == 0 {
		return
	}
	if err := s.notifications.CreateBatch(ctx, notes); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to write notifications", "error", err, "count", len(notes))
	}
}

func (s *ApprovalService) userName(ctx context.Context, userID string) string {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return userID
	}
	return user.Name
}

// fileDisplayName resolves the drive name for messages, falling back to the
// raw id when the drive is unreachable.
func (s *ApprovalService) fileDisplayName(ctx context.Context, fileID string) string {
	if meta := s.fileMeta(ctx, fileID); meta != nil && meta.Name != "" {
		return meta.Name
	}
	return fileID
}

// fileMeta fetches drive metadata through the cache. Returns nil on any
// failure; callers degrade to ids.
func (s *ApprovalService) fileMeta(ctx context.Context, fileID string) *drive.Metadata {
	var meta drive.Metadata
	err := cache.Aside(ctx, cache.DriveMetaKey(fileID), &meta, cache.DriveMetaTTL, func() error {
		m, err := s.store.Metadata(ctx, fileID)
		if err != nil {
			return err
		}
		meta = *m
		return nil
	})
	if err != nil {
		return nil
	}
	return &meta
}
