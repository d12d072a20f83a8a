package mapper

import "github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"

// EntryArgs are the arguments of capsule_create_entry.
type EntryArgs struct {
	Content       string                   `json:"content"`
	Type          capsule.Optional[string] `json:"type"`
	PartyID       capsule.Optional[int64]  `json:"partyId"`
	OpportunityID capsule.Optional[int64]  `json:"opportunityId"`
	KaseID        capsule.Optional[int64]  `json:"kaseId"`
}

func (a EntryArgs) Payload() (capsule.Entry, error) {
	if err := required("content", a.Content); err != nil {
		return capsule.Entry{}, err
	}
	return capsule.Entry{
		Content:     capsule.Some(a.Content),
		Type:        a.Type,
		Party:       ref(a.PartyID),
		Opportunity: ref(a.OpportunityID),
		Kase:        ref(a.KaseID),
	}, nil
}
