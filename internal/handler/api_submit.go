package handler

import (
    "context"
    "database/sql"
    "encoding/json"
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/acl"
    "github.com/talkform/talkform/internal/middleware"
    "github.com/talkform/talkform/internal/model"
    "github.com/talkform/talkform/internal/queue"
    "github.com/talkform/talkform/internal/repository"
    queue_publisher "github.com/talkform/talkform/internal/service"
    "github.com/talkform/talkform/internal/submission"
)

// SubmitHandler implements the write side of the public feedback API:
// opening a response with its first answer and recording subsequent
// answers.  Both endpoints require the submit-responses role on the
// form's project.
type SubmitHandler struct {
    Engine          *acl.Engine
    Projects        *repository.ProjectRepo
    Forms           *repository.FeedbackFormRepo
    Prompts         *repository.PromptRepo
    Responses       *repository.ResponseRepo
    PromptResponses *repository.PromptResponseRepo
}

func NewSubmitHandler(engine *acl.Engine, projects *repository.ProjectRepo, forms *repository.FeedbackFormRepo, prompts *repository.PromptRepo, responses *repository.ResponseRepo, promptResponses *repository.PromptResponseRepo) *SubmitHandler {
    return &SubmitHandler{Engine: engine, Projects: projects, Forms: forms, Prompts: prompts, Responses: responses, PromptResponses: promptResponses}
}

type firstPromptResponseReq struct {
    Prompt uint64          `json:"prompt"`
    Value  json.RawMessage `json:"value"`
}

type createResponseReq struct {
    FeedbackForm        uint64                 `json:"feedback_form"`
    URL                 string                 `json:"url"`
    Metadata            json.RawMessage        `json:"metadata"`
    FirstPromptResponse firstPromptResponseReq `json:"first_prompt_response"`
}

type createPromptResponseReq struct {
    Prompt   uint64          `json:"prompt"`
    Response uint64          `json:"response"`
    Value    json.RawMessage `json:"value"`
}

// CreateResponse opens a new response on a feedback form together with
// its first answer.  Checks run in a fixed order: the form must exist,
// the caller must hold submit access on its project, the form must be
// enabled, the answered prompt must be the lowest-order enabled prompt
// of the form, and the value must validate for the prompt's kind.  The
// response and the first answer are written as one transaction.
func (h *SubmitHandler) CreateResponse(c echo.Context) error {
    principal, ok := middleware.CurrentPrincipal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createResponseReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.FeedbackForm == 0 {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "Feedback form id=0 not found."})
    }

    ctx := c.Request().Context()
    form, err := h.Forms.GetByID(ctx, req.FeedbackForm)
    if err == sql.ErrNoRows {
        return c.JSON(http.StatusNotFound, echo.Map{
            "error": fmt.Sprintf("Feedback form id=%d not found.", req.FeedbackForm),
        })
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load form failed"})
    }

    allowed, err := h.Engine.CanAccessProject(ctx, principal, form.ProjectID, model.APIRoleSubmit)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "access check failed"})
    }
    if !allowed {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }

    if !form.Enabled() {
        return c.JSON(http.StatusNotFound, echo.Map{
            "error": fmt.Sprintf("Feedback form id=%d is disabled.", form.ID),
        })
    }

    prompts, err := h.Prompts.ListByForm(ctx, form.ID, false)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list prompts failed"})
    }

    var fields submission.FieldErrors
    fields = append(fields, submission.CheckFirstPrompt(form.ID, prompts, req.FirstPromptResponse.Prompt)...)

    var prompt model.Prompt
    havePrompt := false
    for _, p := range prompts {
        if p.ID == req.FirstPromptResponse.Prompt {
            prompt, havePrompt = p, true
            break
        }
    }
    var first model.PromptResponse
    if havePrompt {
        fields = append(fields, submission.CrossCheck(prompt, form.ID, 0, false)...)
        pr, valueErrs, err := submission.BuildValue(prompt, req.FirstPromptResponse.Value)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
        }
        fields = append(fields, valueErrs...)
        first = pr
    }
    if len(fields) > 0 {
        return validationFailed(c, fields.Map())
    }

    resp := model.Response{
        FeedbackFormID: form.ID,
        URL:            req.URL,
        Metadata:       req.Metadata,
    }
    if err := h.Responses.CreateWithFirst(ctx, &resp, &first); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create response failed"})
    }

    h.publishSubmitted(form, resp)
    h.publishRecorded(form, first)

    body := responseJSON(resp)
    body["first_prompt_response"] = promptResponseJSON(first)
    return c.JSON(http.StatusCreated, body)
}

// CreatePromptResponse records an answer on an existing response.  Any
// enabled prompt of the form may be answered in any order after the
// first, once each.
func (h *SubmitHandler) CreatePromptResponse(c echo.Context) error {
    principal, ok := middleware.CurrentPrincipal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createPromptResponseReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx := c.Request().Context()
    resp, projectID, err := h.Responses.GetByID(ctx, req.Response)
    if err == sql.ErrNoRows {
        return c.JSON(http.StatusNotFound, echo.Map{
            "error": fmt.Sprintf("Response id=%d not found.", req.Response),
        })
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load response failed"})
    }

    allowed, err := h.Engine.CanAccessProject(ctx, principal, projectID, model.APIRoleSubmit)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "access check failed"})
    }
    if !allowed {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }

    form, err := h.Forms.GetByID(ctx, resp.FeedbackFormID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load form failed"})
    }
    if !form.Enabled() {
        return c.JSON(http.StatusNotFound, echo.Map{
            "error": fmt.Sprintf("Feedback form id=%d is disabled.", form.ID),
        })
    }

    prompt, err := h.Prompts.GetByID(ctx, req.Prompt)
    if err == sql.ErrNoRows {
        return c.JSON(http.StatusNotFound, echo.Map{
            "error": fmt.Sprintf("Prompt id=%d not found.", req.Prompt),
        })
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load prompt failed"})
    }

    already, err := h.PromptResponses.Exists(ctx, resp.ID, prompt.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "duplicate check failed"})
    }

    fields := submission.CrossCheck(prompt, resp.FeedbackFormID, resp.ID, already)
    pr, valueErrs, err := submission.BuildValue(prompt, req.Value)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
    fields = append(fields, valueErrs...)
    if len(fields) > 0 {
        return validationFailed(c, fields.Map())
    }

    pr.ResponseID = resp.ID
    if err := h.PromptResponses.Create(ctx, &pr); err != nil {
        if err == repository.ErrDuplicateAnswer {
            // Lost a race against a concurrent submission of the same pair.
            return validationFailed(c, submission.FieldErrors{{
                Field:   "prompt",
                Message: fmt.Sprintf("Prompt id=%d has already been answered for response id=%d.", prompt.ID, resp.ID),
            }}.Map())
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create prompt response failed"})
    }

    h.publishRecorded(form, pr)
    return c.JSON(http.StatusCreated, promptResponseJSON(pr))
}

// publishSubmitted emits the response.submitted event without blocking
// the request; broker trouble is the publisher's problem.
func (h *SubmitHandler) publishSubmitted(form model.FeedbackForm, resp model.Response) {
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        project, err := h.Projects.GetByID(ctx, form.ProjectID)
        if err != nil {
            return
        }
        _ = queue_publisher.PublishResponseSubmitted(ctx, queue.ResponseSubmittedEvent{
            ResponseID:     resp.ID,
            FeedbackFormID: form.ID,
            ProjectID:      form.ProjectID,
            ProjectDomain:  project.Domain,
            FormName:       form.Name,
            URL:            resp.URL,
            SubmittedAt:    time.Now().UTC().Format(time.RFC3339),
        })
    }()
}

func (h *SubmitHandler) publishRecorded(form model.FeedbackForm, pr model.PromptResponse) {
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        _ = queue_publisher.PublishPromptResponseRecorded(ctx, queue.PromptResponseRecordedEvent{
            PromptResponseID: pr.ID,
            ResponseID:       pr.ResponseID,
            PromptID:         pr.PromptID,
            FeedbackFormID:   form.ID,
            ProjectID:        form.ProjectID,
            PromptType:       string(pr.Kind),
            RecordedAt:       time.Now().UTC().Format(time.RFC3339),
        })
    }()
}
