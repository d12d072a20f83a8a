package mapper

import "github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"

// OpportunityArgs are the arguments of capsule_create_opportunity.
//
// durationBasis FIXED expects duration to be null; the combination is sent
// as given and left to the CRM.
type OpportunityArgs struct {
	Name            string                                               `json:"name"`
	PartyID         int64                                                `json:"partyId"`
	MilestoneID     int64                                                `json:"milestoneId"`
	Description     capsule.Optional[string]                             `json:"description"`
	Value           capsule.Optional[capsule.Money]                      `json:"value"`
	ExpectedCloseOn capsule.Optional[string]                             `json:"expectedCloseOn"`
	Probability     capsule.Optional[int]                                `json:"probability"`
	DurationBasis   capsule.Optional[string]                             `json:"durationBasis"`
	Duration        capsule.Optional[int]                                `json:"duration"`
	LostReasonID    capsule.Optional[int64]                              `json:"lostReasonId"`
	OwnerID         capsule.Optional[int64]                              `json:"ownerId"`
	TeamID          capsule.Optional[int64]                              `json:"teamId"`
	Tags            capsule.Optional[[]capsule.Item[capsule.Tag]]        `json:"tags"`
	Tracks          capsule.Optional[[]capsule.Track]                    `json:"tracks"`
	CustomFields    capsule.Optional[[]capsule.Item[capsule.FieldValue]] `json:"customFields"`
}

func (a OpportunityArgs) Payload() (capsule.Opportunity, error) {
	if err := required("name", a.Name); err != nil {
		return capsule.Opportunity{}, err
	}
	return capsule.Opportunity{
		Name:            capsule.Some(a.Name),
		Party:           must(a.PartyID),
		Milestone:       must(a.MilestoneID),
		Description:     a.Description,
		Value:           a.Value,
		ExpectedCloseOn: a.ExpectedCloseOn,
		Probability:     a.Probability,
		DurationBasis:   a.DurationBasis,
		Duration:        a.Duration,
		LostReason:      ref(a.LostReasonID),
		Owner:           ref(a.OwnerID),
		Team:            ref(a.TeamID),
		Tags:            a.Tags,
		Tracks:          a.Tracks,
		Fields:          a.CustomFields,
	}, nil
}

// OpportunityUpdateArgs are the arguments of capsule_update_opportunity.
type OpportunityUpdateArgs struct {
	OpportunityID   int64                                                `json:"opportunityId"`
	Name            capsule.Optional[string]                             `json:"name"`
	Description     capsule.Optional[string]                             `json:"description"`
	PartyID         capsule.Optional[int64]                              `json:"partyId"`
	MilestoneID     capsule.Optional[int64]                              `json:"milestoneId"`
	Value           capsule.Optional[capsule.Money]                      `json:"value"`
	ExpectedCloseOn capsule.Optional[string]                             `json:"expectedCloseOn"`
	Probability     capsule.Optional[int]                                `json:"probability"`
	DurationBasis   capsule.Optional[string]                             `json:"durationBasis"`
	Duration        capsule.Optional[int]                                `json:"duration"`
	LostReasonID    capsule.Optional[int64]                              `json:"lostReasonId"`
	OwnerID         capsule.Optional[int64]                              `json:"ownerId"`
	TeamID          capsule.Optional[int64]                              `json:"teamId"`
	Tags            capsule.Optional[[]capsule.Item[capsule.Tag]]        `json:"tags"`
	CustomFields    capsule.Optional[[]capsule.Item[capsule.FieldValue]] `json:"customFields"`
}

func (a OpportunityUpdateArgs) ID() int64 { return a.OpportunityID }

func (a OpportunityUpdateArgs) Payload() capsule.Opportunity {
	return capsule.Opportunity{
		Name:            a.Name,
		Description:     a.Description,
		Party:           capsule.RefOf(a.PartyID),
		Milestone:       capsule.RefOf(a.MilestoneID),
		Value:           a.Value,
		ExpectedCloseOn: a.ExpectedCloseOn,
		Probability:     a.Probability,
		DurationBasis:   a.DurationBasis,
		Duration:        a.Duration,
		LostReason:      capsule.RefOf(a.LostReasonID),
		Owner:           capsule.RefOf(a.OwnerID),
		Team:            capsule.RefOf(a.TeamID),
		Tags:            a.Tags,
		Fields:          a.CustomFields,
	}
}
