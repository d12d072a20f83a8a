package mapper

import "github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"

// Project statuses.
const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// ProjectArgs are the arguments of capsule_create_project.
type ProjectArgs struct {
	Name            string                                               `json:"name"`
	PartyID         int64                                                `json:"partyId"`
	Description     capsule.Optional[string]                             `json:"description"`
	OpportunityID   capsule.Optional[int64]                              `json:"opportunityId"`
	StageID         capsule.Optional[int64]                              `json:"stageId"`
	Status          capsule.Optional[string]                             `json:"status"`
	ExpectedCloseOn capsule.Optional[string]                             `json:"expectedCloseOn"`
	ClosedOn        capsule.Optional[string]                             `json:"closedOn"`
	OwnerID         capsule.Optional[int64]                              `json:"ownerId"`
	TeamID          capsule.Optional[int64]                              `json:"teamId"`
	Tags            capsule.Optional[[]capsule.Item[capsule.Tag]]        `json:"tags"`
	CustomFields    capsule.Optional[[]capsule.Item[capsule.FieldValue]] `json:"customFields"`
}

func (a ProjectArgs) Payload() (capsule.Project, error) {
	if err := required("name", a.Name); err != nil {
		return capsule.Project{}, err
	}
	return capsule.Project{
		Name:            capsule.Some(a.Name),
		Party:           must(a.PartyID),
		Description:     a.Description,
		Opportunity:     ref(a.OpportunityID),
		Stage:           ref(a.StageID),
		Status:          a.Status,
		ExpectedCloseOn: a.ExpectedCloseOn,
		ClosedOn:        a.ClosedOn,
		Owner:           ref(a.OwnerID),
		Team:            ref(a.TeamID),
		Tags:            a.Tags,
		Fields:          a.CustomFields,
	}, nil
}

// ProjectUpdateArgs are the arguments of capsule_update_project.
type ProjectUpdateArgs struct {
	ProjectID       int64                                                `json:"projectId"`
	Name            capsule.Optional[string]                             `json:"name"`
	Description     capsule.Optional[string]                             `json:"description"`
	PartyID         capsule.Optional[int64]                              `json:"partyId"`
	OpportunityID   capsule.Optional[int64]                              `json:"opportunityId"`
	StageID         capsule.Optional[int64]                              `json:"stageId"`
	Status          capsule.Optional[string]                             `json:"status"`
	ExpectedCloseOn capsule.Optional[string]                             `json:"expectedCloseOn"`
	ClosedOn        capsule.Optional[string]                             `json:"closedOn"`
	OwnerID         capsule.Optional[int64]                              `json:"ownerId"`
	TeamID          capsule.Optional[int64]                              `json:"teamId"`
	Tags            capsule.Optional[[]capsule.Item[capsule.Tag]]        `json:"tags"`
	CustomFields    capsule.Optional[[]capsule.Item[capsule.FieldValue]] `json:"customFields"`
}

func (a ProjectUpdateArgs) ID() int64 { return a.ProjectID }

func (a ProjectUpdateArgs) Payload() capsule.Project {
	return capsule.Project{
		Name:            a.Name,
		Description:     a.Description,
		Party:           capsule.RefOf(a.PartyID),
		Opportunity:     capsule.RefOf(a.OpportunityID),
		Stage:           capsule.RefOf(a.StageID),
		Status:          a.Status,
		ExpectedCloseOn: a.ExpectedCloseOn,
		ClosedOn:        a.ClosedOn,
		Owner:           capsule.RefOf(a.OwnerID),
		Team:            capsule.RefOf(a.TeamID),
		Tags:            a.Tags,
		Fields:          a.CustomFields,
	}
}
