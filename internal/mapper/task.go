package mapper

import "github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"

// TaskArgs are the arguments of capsule_create_task.
type TaskArgs struct {
	Description   string                                               `json:"description"`
	Detail        capsule.Optional[string]                             `json:"detail"`
	DueOn         capsule.Optional[string]                             `json:"dueOn"`
	DueTime       capsule.Optional[string]                             `json:"dueTime"`
	Completed     capsule.Optional[bool]                               `json:"completed"`
	CategoryID    capsule.Optional[int64]                              `json:"categoryId"`
	PartyID       capsule.Optional[int64]                              `json:"partyId"`
	OpportunityID capsule.Optional[int64]                              `json:"opportunityId"`
	KaseID        capsule.Optional[int64]                              `json:"kaseId"`
	OwnerID       capsule.Optional[int64]                              `json:"ownerId"`
	TeamID        capsule.Optional[int64]                              `json:"teamId"`
	Tags          capsule.Optional[[]capsule.Item[capsule.Tag]]        `json:"tags"`
	CustomFields  capsule.Optional[[]capsule.Item[capsule.FieldValue]] `json:"customFields"`
}

func (a TaskArgs) Payload() (capsule.Task, error) {
	if err := required("description", a.Description); err != nil {
		return capsule.Task{}, err
	}
	return capsule.Task{
		Description: capsule.Some(a.Description),
		Detail:      a.Detail,
		DueOn:       a.DueOn,
		DueTime:     a.DueTime,
		Completed:   a.Completed,
		Category:    ref(a.CategoryID),
		Party:       ref(a.PartyID),
		Opportunity: ref(a.OpportunityID),
		Kase:        ref(a.KaseID),
		Owner:       ref(a.OwnerID),
		Team:        ref(a.TeamID),
		Tags:        a.Tags,
		Fields:      a.CustomFields,
	}, nil
}

// TaskUpdateArgs are the arguments of capsule_update_task.
type TaskUpdateArgs struct {
	TaskID        int64                                                `json:"taskId"`
	Description   capsule.Optional[string]                             `json:"description"`
	Detail        capsule.Optional[string]                             `json:"detail"`
	DueOn         capsule.Optional[string]                             `json:"dueOn"`
	DueTime       capsule.Optional[string]                             `json:"dueTime"`
	Completed     capsule.Optional[bool]                               `json:"completed"`
	CategoryID    capsule.Optional[int64]                              `json:"categoryId"`
	PartyID       capsule.Optional[int64]                              `json:"partyId"`
	OpportunityID capsule.Optional[int64]                              `json:"opportunityId"`
	KaseID        capsule.Optional[int64]                              `json:"kaseId"`
	OwnerID       capsule.Optional[int64]                              `json:"ownerId"`
	TeamID        capsule.Optional[int64]                              `json:"teamId"`
	Tags          capsule.Optional[[]capsule.Item[capsule.Tag]]        `json:"tags"`
	CustomFields  capsule.Optional[[]capsule.Item[capsule.FieldValue]] `json:"customFields"`
}

func (a TaskUpdateArgs) ID() int64 { return a.TaskID }

func (a TaskUpdateArgs) Payload() capsule.Task {
	return capsule.Task{
		Description: a.Description,
		Detail:      a.Detail,
		DueOn:       a.DueOn,
		DueTime:     a.DueTime,
		Completed:   a.Completed,
		Category:    capsule.RefOf(a.CategoryID),
		Party:       capsule.RefOf(a.PartyID),
		Opportunity: capsule.RefOf(a.OpportunityID),
		Kase:        capsule.RefOf(a.KaseID),
		Owner:       capsule.RefOf(a.OwnerID),
		Team:        capsule.RefOf(a.TeamID),
		Tags:        a.Tags,
		Fields:      a.CustomFields,
	}
}

// CompletionPayload is the body of the mark complete/incomplete shortcuts.
func CompletionPayload(done bool) capsule.Task {
	return capsule.Task{Completed: capsule.Some(done)}
}
