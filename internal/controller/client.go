package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/homely/homely-back/internal/domain"
)

// Enhancer is the optional AI prefill collaborator. Implementations never
// return an error; failures come back as a degraded draft.
type Enhancer interface {
	EnhanceDescription(ctx context.Context, rawText string, serviceType domain.ServiceType) domain.EnhancedDraft
}

// Draft is the create-job form state.
type Draft struct {
	Title       string
	Description string
	ServiceType domain.ServiceType
	Location    string
	Date        string
	Budget      string

	aiEstimatedQuote string
}

// ClientController drives the client dashboard: the owned-jobs view, the
// create-job workflow, and cancel transitions.
type ClientController struct {
	*poller
	clientID string
	enhancer Enhancer

	draftMu sync.Mutex
	draft   Draft
}

func NewClientController(store JobStore, clientID string, enhancer Enhancer, cfg Config) *ClientController {
	c := &ClientController{
		clientID: clientID,
		enhancer: enhancer,
	}
	c.poller = newPoller(store, cfg, func(job domain.Job) bool {
		return job.ClientID == clientID
	})
	c.draft.ServiceType = domain.ServiceTypeCleaning
	return c
}

func (c *ClientController) Draft() Draft {
	c.draftMu.Lock()
	defer c.draftMu.Unlock()
	return c.draft
}

func (c *ClientController) SetDraft(draft Draft) {
	c.draftMu.Lock()
	defer c.draftMu.Unlock()
	quote := c.draft.aiEstimatedQuote
	c.draft = draft
	c.draft.aiEstimatedQuote = quote
}

// EnhanceDraft asks the collaborator to polish the current draft. The budget
// field is only filled when the user left it empty. A collaborator failure
// leaves the draft usable and never blocks submission.
func (c *ClientController) EnhanceDraft(ctx context.Context) {
	if c.enhancer == nil {
		return
	}

	c.draftMu.Lock()
	description := c.draft.Description
	serviceType := c.draft.ServiceType
	c.draftMu.Unlock()

	if strings.TrimSpace(description) == "" {
		return
	}

	enhanced := c.enhancer.EnhanceDescription(ctx, description, serviceType)

	c.draftMu.Lock()
	defer c.draftMu.Unlock()
	c.draft.Title = enhanced.Title
	c.draft.Description = enhanced.Description
	if strings.TrimSpace(c.draft.Budget) == "" {
		c.draft.Budget = enhanced.EstimatedPrice
	}
	c.draft.aiEstimatedQuote = enhanced.EstimatedPrice
}

// SubmitDraft creates a job from the current draft, forces an immediate
// re-poll, and clears the form.
func (c *ClientController) SubmitDraft(ctx context.Context) (domain.Job, error) {
	c.draftMu.Lock()
	draft := c.draft
	c.draftMu.Unlock()

	title := draft.Title
	if strings.TrimSpace(title) == "" {
		title = fmt.Sprintf("%s Request", draft.ServiceType)
	}

	job := domain.Job{
		ID:               uuid.NewString(),
		ClientID:         c.clientID,
		Title:            title,
		Description:      draft.Description,
		ServiceType:      draft.ServiceType,
		Location:         draft.Location,
		Date:             draft.Date,
		Budget:           draft.Budget,
		Status:           domain.JobStatusPending,
		CreatedAt:        domain.NowMillis(),
		AIEstimatedQuote: draft.aiEstimatedQuote,
	}

	created, err := c.store.CreateJob(ctx, job)
	if err != nil {
		return domain.Job{}, fmt.Errorf("submit draft: %w", err)
	}

	c.refresh(ctx)

	c.draftMu.Lock()
	c.draft = Draft{ServiceType: domain.ServiceTypeCleaning}
	c.draftMu.Unlock()

	return created, nil
}

// Cancel declines the client's own job. The UI calls it "cancel" but it is
// the same transition a worker uses to decline.
func (c *ClientController) Cancel(ctx context.Context, jobID string) error {
	if _, err := c.store.UpdateJobStatus(ctx, jobID, domain.JobStatusDeclined); err != nil {
		return fmt.Errorf("cancel job %s: %w", jobID, err)
	}
	c.refresh(ctx)
	return nil
}
