package employee

import (
	"context"
	"sort"

	"hrms/internal/domain/registration"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) []Employee {
	return s.store.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	e, ok := s.store.FindByID(ctx, id)
	if !ok {
		return Employee{}, ErrNotFound
	}
	return e, nil
}

// Register validates every wizard step and adds the record if its email is free.
func (s *Service) Register(ctx context.Context, d registration.Draft) (Employee, error) {
	if err := registration.Check(d); err != nil {
		return Employee{}, err
	}
	return s.store.AddIfEmailUnique(ctx, FromDraft("", d))
}

// Edit replaces the record at id. The id in the path always wins.
func (s *Service) Edit(ctx context.Context, id string, d registration.Draft) (Employee, error) {
	if _, err := s.store.Lookup(ctx, id); err != nil {
		return Employee{}, err
	}
	if err := registration.Check(d); err != nil {
		return Employee{}, err
	}
	updated := FromDraft(id, d)
	if _, err := s.store.UpdateIfEmailUnique(ctx, updated); err != nil {
		return Employee{}, err
	}
	return updated, nil
}

func (s *Service) Remove(ctx context.Context, id string) ([]Employee, error) {
	return s.store.Remove(ctx, id)
}

func (s *Service) EmailAvailable(ctx context.Context, email, excludeID string) bool {
	return s.store.IsEmailUnique(ctx, email, excludeID)
}

func (s *Service) Summary(ctx context.Context) Summary {
	return s.store.Summary(ctx)
}

func (s *Service) Document(ctx context.Context, id string) ([]byte, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return RenderDocument(e)
}

// Validate runs a single wizard step. The contact step also rejects an email
// already used by a record other than excludeID.
func (s *Service) Validate(ctx context.Context, step registration.Step, d registration.Draft, excludeID string) registration.StepResult {
	result := registration.Evaluate(step, d)
	if step != registration.StepContact || hasIssue(result.Issues, "email") {
		return result
	}
	if !s.store.IsEmailUnique(ctx, d.Email, excludeID) {
		result.Issues = append(result.Issues, registration.Issue{Field: "email", Reason: "This email is already registered."})
		sort.SliceStable(result.Issues, func(i, j int) bool { return result.Issues[i].Field < result.Issues[j].Field })
		result.Valid = false
		result.NextStep = step
	}
	return result
}

func hasIssue(issues []registration.Issue, field string) bool {
	for _, issue := range issues {
		if issue.Field == field {
			return true
		}
	}
	return false
}

// Ready reports whether the collection can be read right now.
func (s *Service) Ready(ctx context.Context) error {
	_, err := s.store.Snapshot(ctx)
	return err
}
