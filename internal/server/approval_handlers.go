package server

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"sahkan/internal/drive"
	"sahkan/internal/models"
	"sahkan/internal/service"
)

// AssignApprovals handles POST /api/approvals: creates an approval batch.
func (s *Server) AssignApprovals(c *fiber.Ctx) error {
	var req struct {
		FileRef         service.FileRef `json:"fileRef"`
		ApproverUserIDs []string        `json:"approverUserIds"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.approvalService.Assign(c.Context(), currentUserID(c), req.FileRef, req.ApproverUserIDs)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return respondAssignResult(c, result)
}

// respondAssignResult maps an assignment outcome onto the wire: 201 when every
// approver was assigned, 207 on partial success, 400 when nothing stuck. The
// failure case still carries an error message alongside the per-approver
// breakdown.
func respondAssignResult(c *fiber.Ctx, result *service.AssignResult) error {
	switch {
	case len(result.Assigned) == 0:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":     "no approvers could be assigned",
			"processId": result.ProcessID,
			"assigned":  result.Assigned,
			"failed":    result.Failed,
		})
	case len(result.Failed) > 0:
		return c.Status(fiber.StatusMultiStatus).JSON(result)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// UpdateApprovalStatus handles PUT /api/approvals/:processId/:approverId/status
func (s *Server) UpdateApprovalStatus(c *fiber.Ctx) error {
	processID, err := requireParam(c, "processId")
	if err != nil {
		return nil
	}
	approverID, err := requireParam(c, "approverId")
	if err != nil {
		return nil
	}

	var req struct {
		Status  string `json:"status"`
		Remarks string `json:"remarks"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	row, decideErr := s.approvalService.Decide(c.Context(), currentUserID(c), processID, approverID,
		models.ApprovalStatus(req.Status), req.Remarks)
	if decideErr != nil {
		return models.RespondWithAppError(c, decideErr)
	}
	return c.JSON(row)
}

// GetApprovals handles GET /api/approvals?workspaceId&page&limit&search&status
func (s *Server) GetApprovals(c *fiber.Ctx) error {
	workspaceID := c.Query("workspaceId")
	if workspaceID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("workspaceId is required"))
	}
	if err := s.requireWorkspaceMember(c, workspaceID); err != nil {
		return nil
	}

	p := parsePagination(c, 10)
	summaries, total, err := s.approvalService.ListProcesses(c.Context(), workspaceID,
		p.Page, p.Limit, c.Query("search"), c.Query("status"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"processes": summaries,
		"total":     total,
		"page":      p.Page,
		"limit":     p.Limit,
	})
}

// GetMyApprovals handles GET /api/approvals/me: the caller's review inbox.
func (s *Server) GetMyApprovals(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	rows, total, err := s.approvalService.Inbox(c.Context(), currentUserID(c),
		models.ApprovalStatus(c.Query("status")), p.Page, p.Limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"approvals": rows,
		"total":     total,
		"page":      p.Page,
		"limit":     p.Limit,
	})
}

// GetApprovalInfo handles GET /api/approvals/:processId/info?fileIdRef
func (s *Server) GetApprovalInfo(c *fiber.Ctx) error {
	processID, err := requireParam(c, "processId")
	if err != nil {
		return nil
	}

	detail, detailErr := s.approvalService.ProcessDetail(c.Context(), processID)
	if detailErr != nil {
		return models.RespondWithAppError(c, detailErr)
	}
	if err := s.requireWorkspaceMember(c, detail.WorkspaceID); err != nil {
		return nil
	}
	if ref := c.Query("fileIdRef"); ref != "" && ref != detail.FileID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("file reference does not match this process"))
	}

	return c.JSON(detail)
}

// ReviseApprovals handles POST /api/approvals/revise: admin-only batch reset
// of every "Perlu Revisi" row of a file.
func (s *Server) ReviseApprovals(c *fiber.Ctx) error {
	var req struct {
		FileRef service.FileRef `json:"fileRef"`
		Notes   string          `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	affected, err := s.approvalService.Revise(c.Context(), currentUserID(c), req.FileRef, req.Notes)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"reset": affected,
		"count": len(affected),
	})
}

// ResubmitApprovals handles POST /api/approvals/resubmit (multipart, file
// optional): same-process resubmission by the original assigner.
func (s *Server) ResubmitApprovals(c *fiber.Ctx) error {
	in := service.ResubmitInput{
		Ref:       fileRefFromForm(c),
		ProcessID: c.FormValue("processId"),
		Notes:     c.FormValue("notes"),
	}
	if in.ProcessID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("processId is required"))
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		src, openErr := fileHeader.Open()
		if openErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(openErr))
		}
		defer src.Close()
		in.Content = src
		in.FileName = fileHeader.Filename
		in.MimeType = fileHeader.Header.Get("Content-Type")
	}

	affected, err := s.approvalService.Resubmit(c.Context(), currentUserID(c), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"reset": affected,
		"count": len(affected),
	})
}

// ReplaceApprovals handles POST /api/approvals/update-and-reapprove
// (multipart, file required): cancels the old process and opens a new one.
func (s *Server) ReplaceApprovals(c *fiber.Ctx) error {
	fileHeader, fhErr := c.FormFile("file")
	if fhErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A replacement file is required"))
	}
	src, openErr := fileHeader.Open()
	if openErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(openErr))
	}
	defer src.Close()

	in := service.ReplaceInput{
		Ref:         fileRefFromForm(c),
		ProcessID:   c.FormValue("processId"),
		ApproverIDs: formValues(c, "approverUserIds"),
		Notes:       c.FormValue("notes"),
		FileName:    fileHeader.Filename,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		Content:     src,
	}
	if in.ProcessID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("processId is required"))
	}

	result, err := s.approvalService.Replace(c.Context(), currentUserID(c), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return respondAssignResult(c, result)
}

// SignAndApprove handles POST /api/approvals/sign-and-approve (multipart
// signature image + placement coordinates).
func (s *Server) SignAndApprove(c *fiber.Ctx) error {
	processID := c.FormValue("processId")
	if processID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("processId is required"))
	}
	approverID := c.FormValue("approverId")
	if approverID == "" {
		approverID = currentUserID(c)
	}

	fileHeader, fhErr := c.FormFile("signature")
	if fhErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A signature image is required"))
	}
	signature, readErr := readFormFile(fileHeader)
	if readErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(readErr))
	}

	placement := drive.SignaturePlacement{
		Page:  formInt(c, "page", 1),
		X:     formFloat(c, "x"),
		Y:     formFloat(c, "y"),
		Width: formFloat(c, "width"),
	}

	row, err := s.approvalService.SignAndApprove(c.Context(), currentUserID(c), processID, approverID, signature, placement)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(row)
}

func fileRefFromForm(c *fiber.Ctx) service.FileRef {
	return service.FileRef{
		FileID:      c.FormValue("fileId"),
		WorkspaceID: c.FormValue("workspaceId"),
		OwnerID:     c.FormValue("ownerId"),
	}
}

// formValues returns all values of a repeated multipart field, splitting
// comma-separated entries for clients that send one joined value.
func formValues(c *fiber.Ctx, key string) []string {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	var out []string
	for _, value := range form.Value[key] {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func formInt(c *fiber.Ctx, key string, def int) int {
	v, err := strconv.Atoi(c.FormValue(key))
	if err != nil {
		return def
	}
	return v
}

func formFloat(c *fiber.Ctx, key string) float64 {
	v, _ := strconv.ParseFloat(c.FormValue(key), 64)
	return v
}

func readFormFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}
