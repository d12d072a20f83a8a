package capsule

import "encoding/json"

// Party types.
const (
	PartyPerson       = "person"
	PartyOrganisation = "organisation"
)

// EmailAddress is an element of a party's emailAddresses.
type EmailAddress struct {
	Type    string `json:"type,omitempty"`
	Address string `json:"address,omitempty"`
}

// PhoneNumber is an element of a party's phoneNumbers.
type PhoneNumber struct {
	Type   string `json:"type,omitempty"`
	Number string `json:"number,omitempty"`
}

// Address is a postal address.
type Address struct {
	Type    string `json:"type,omitempty"`
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

// Website is a URL or social network handle.
type Website struct {
	Type    string `json:"type,omitempty"`
	Address string `json:"address,omitempty"`
	Service string `json:"service,omitempty"`
}

// Tag attaches a tag by id (Item id) or by name.
type Tag struct {
	Name string `json:"name,omitempty"`
}

// FieldValue is a custom field value. Definition is either a bare id or an
// object and is forwarded as given.
type FieldValue struct {
	Definition json.RawMessage `json:"definition,omitempty"`
	Value      json.RawMessage `json:"value,omitempty"`
}

// Track applies a track definition to a new opportunity.
type Track struct {
	Definition json.RawMessage `json:"definition"`
}

// OrganisationRef links a person to an organisation by id or by name.
type OrganisationRef struct {
	ID   *int64 `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Money is an opportunity value.
type Money struct {
	Amount   Optional[float64] `json:"amount,omitzero"`
	Currency Optional[string]  `json:"currency,omitzero"`
}

// Party is the create/update body for /parties.
type Party struct {
	Type           string                         `json:"type,omitempty"`
	FirstName      Optional[string]               `json:"firstName,omitzero"`
	LastName       Optional[string]               `json:"lastName,omitzero"`
	Title          Optional[string]               `json:"title,omitzero"`
	JobTitle       Optional[string]               `json:"jobTitle,omitzero"`
	Name           Optional[string]               `json:"name,omitzero"`
	About          Optional[string]               `json:"about,omitzero"`
	Organisation   Optional[OrganisationRef]      `json:"organisation,omitzero"`
	EmailAddresses Optional[[]Item[EmailAddress]] `json:"emailAddresses,omitzero"`
	PhoneNumbers   Optional[[]Item[PhoneNumber]]  `json:"phoneNumbers,omitzero"`
	Addresses      Optional[[]Item[Address]]      `json:"addresses,omitzero"`
	Websites       Optional[[]Item[Website]]      `json:"websites,omitzero"`
	Tags           Optional[[]Item[Tag]]          `json:"tags,omitzero"`
	Fields         Optional[[]Item[FieldValue]]   `json:"fields,omitzero"`
	Owner          Optional[Ref]                  `json:"owner,omitzero"`
	Team           Optional[Ref]                  `json:"team,omitzero"`
}

// Opportunity is the create/update body for /opportunities.
type Opportunity struct {
	Name            Optional[string]             `json:"name,omitzero"`
	Description     Optional[string]             `json:"description,omitzero"`
	Party           Optional[Ref]                `json:"party,omitzero"`
	Milestone       Optional[Ref]                `json:"milestone,omitzero"`
	Value           Optional[Money]              `json:"value,omitzero"`
	ExpectedCloseOn Optional[string]             `json:"expectedCloseOn,omitzero"`
	Probability     Optional[int]                `json:"probability,omitzero"`
	DurationBasis   Optional[string]             `json:"durationBasis,omitzero"`
	Duration        Optional[int]                `json:"duration,omitzero"`
	LostReason      Optional[Ref]                `json:"lostReason,omitzero"`
	Owner           Optional[Ref]                `json:"owner,omitzero"`
	Team            Optional[Ref]                `json:"team,omitzero"`
	Tags            Optional[[]Item[Tag]]        `json:"tags,omitzero"`
	Tracks          Optional[[]Track]            `json:"tracks,omitzero"`
	Fields          Optional[[]Item[FieldValue]] `json:"fields,omitzero"`
}

// Project is the create/update body for /kases.
type Project struct {
	Name            Optional[string]             `json:"name,omitzero"`
	Description     Optional[string]             `json:"description,omitzero"`
	Party           Optional[Ref]                `json:"party,omitzero"`
	Opportunity     Optional[Ref]                `json:"opportunity,omitzero"`
	Stage           Optional[Ref]                `json:"stage,omitzero"`
	Status          Optional[string]             `json:"status,omitzero"`
	ExpectedCloseOn Optional[string]             `json:"expectedCloseOn,omitzero"`
	ClosedOn        Optional[string]             `json:"closedOn,omitzero"`
	Owner           Optional[Ref]                `json:"owner,omitzero"`
	Team            Optional[Ref]                `json:"team,omitzero"`
	Tags            Optional[[]Item[Tag]]        `json:"tags,omitzero"`
	Fields          Optional[[]Item[FieldValue]] `json:"fields,omitzero"`
}

// Task is the create/update body for /tasks.
type Task struct {
	Description Optional[string]             `json:"description,omitzero"`
	Detail      Optional[string]             `json:"detail,omitzero"`
	DueOn       Optional[string]             `json:"dueOn,omitzero"`
	DueTime     Optional[string]             `json:"dueTime,omitzero"`
	Completed   Optional[bool]               `json:"completed,omitzero"`
	Category    Optional[Ref]                `json:"category,omitzero"`
	Party       Optional[Ref]                `json:"party,omitzero"`
	Opportunity Optional[Ref]                `json:"opportunity,omitzero"`
	Kase        Optional[Ref]                `json:"kase,omitzero"`
	Owner       Optional[Ref]                `json:"owner,omitzero"`
	Team        Optional[Ref]                `json:"team,omitzero"`
	Tags        Optional[[]Item[Tag]]        `json:"tags,omitzero"`
	Fields      Optional[[]Item[FieldValue]] `json:"fields,omitzero"`
}

// Entry is the create body for /entries.
type Entry struct {
	Type        Optional[string] `json:"type,omitzero"`
	Content     Optional[string] `json:"content,omitzero"`
	Party       Optional[Ref]    `json:"party,omitzero"`
	Opportunity Optional[Ref]    `json:"opportunity,omitzero"`
	Kase        Optional[Ref]    `json:"kase,omitzero"`
}
