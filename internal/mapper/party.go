package mapper

import "github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"

// ContactInfo holds the repeated contact-method collections shared by every
// party shape.
type ContactInfo struct {
	EmailAddresses capsule.Optional[[]capsule.Item[capsule.EmailAddress]] `json:"emailAddresses"`
	PhoneNumbers   capsule.Optional[[]capsule.Item[capsule.PhoneNumber]]  `json:"phoneNumbers"`
	Addresses      capsule.Optional[[]capsule.Item[capsule.Address]]      `json:"addresses"`
	Websites       capsule.Optional[[]capsule.Item[capsule.Website]]      `json:"websites"`
	Tags           capsule.Optional[[]capsule.Item[capsule.Tag]]          `json:"tags"`
	CustomFields   capsule.Optional[[]capsule.Item[capsule.FieldValue]]   `json:"customFields"`
}

func (c ContactInfo) apply(p *capsule.Party) {
	p.EmailAddresses = c.EmailAddresses
	p.PhoneNumbers = c.PhoneNumbers
	p.Addresses = c.Addresses
	p.Websites = c.Websites
	p.Tags = c.Tags
	p.Fields = c.CustomFields
}

// PersonArgs are the arguments of capsule_create_person.
type PersonArgs struct {
	FirstName        string                   `json:"firstName"`
	LastName         string                   `json:"lastName"`
	Title            capsule.Optional[string] `json:"title"`
	JobTitle         capsule.Optional[string] `json:"jobTitle"`
	About            capsule.Optional[string] `json:"about"`
	OrganizationID   capsule.Optional[int64]  `json:"organizationId"`
	OrganizationName capsule.Optional[string] `json:"organizationName"`
	OwnerID          capsule.Optional[int64]  `json:"ownerId"`
	TeamID           capsule.Optional[int64]  `json:"teamId"`
	ContactInfo
}

// Payload builds the person body. An organisation id wins over a name.
func (a PersonArgs) Payload() (capsule.Party, error) {
	if err := required("firstName", a.FirstName); err != nil {
		return capsule.Party{}, err
	}
	if err := required("lastName", a.LastName); err != nil {
		return capsule.Party{}, err
	}

	p := capsule.Party{
		Type:      capsule.PartyPerson,
		FirstName: capsule.Some(a.FirstName),
		LastName:  capsule.Some(a.LastName),
		Title:     a.Title,
		JobTitle:  a.JobTitle,
		About:     a.About,
		Owner:     ref(a.OwnerID),
		Team:      ref(a.TeamID),
	}
	if id, ok := a.OrganizationID.Get(); ok {
		p.Organisation = capsule.Some(capsule.OrganisationRef{ID: &id})
	} else if name, ok := a.OrganizationName.Get(); ok {
		p.Organisation = capsule.Some(capsule.OrganisationRef{Name: name})
	}
	a.ContactInfo.apply(&p)
	return p, nil
}

// OrganisationArgs are the arguments of capsule_create_organization.
type OrganisationArgs struct {
	Name    string                   `json:"name"`
	About   capsule.Optional[string] `json:"about"`
	OwnerID capsule.Optional[int64]  `json:"ownerId"`
	TeamID  capsule.Optional[int64]  `json:"teamId"`
	ContactInfo
}

func (a OrganisationArgs) Payload() (capsule.Party, error) {
	if err := required("name", a.Name); err != nil {
		return capsule.Party{}, err
	}
	p := capsule.Party{
		Type:  capsule.PartyOrganisation,
		Name:  capsule.Some(a.Name),
		About: a.About,
		Owner: ref(a.OwnerID),
		Team:  ref(a.TeamID),
	}
	a.ContactInfo.apply(&p)
	return p, nil
}

// PartyUpdateArgs are the arguments of capsule_update_party. Person and
// organisation fields may both be given; the CRM ignores the ones that do not
// apply to the stored party.
type PartyUpdateArgs struct {
	PartyID          int64                    `json:"partyId"`
	FirstName        capsule.Optional[string] `json:"firstName"`
	LastName         capsule.Optional[string] `json:"lastName"`
	Title            capsule.Optional[string] `json:"title"`
	JobTitle         capsule.Optional[string] `json:"jobTitle"`
	Name             capsule.Optional[string] `json:"name"`
	About            capsule.Optional[string] `json:"about"`
	OrganizationID   capsule.Optional[int64]  `json:"organizationId"`
	OrganizationName capsule.Optional[string] `json:"organizationName"`
	OwnerID          capsule.Optional[int64]  `json:"ownerId"`
	TeamID           capsule.Optional[int64]  `json:"teamId"`
	ContactInfo
}

func (a PartyUpdateArgs) ID() int64 { return a.PartyID }

// Payload builds the update body. A null relation id clears the relation.
func (a PartyUpdateArgs) Payload() capsule.Party {
	p := capsule.Party{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Title:     a.Title,
		JobTitle:  a.JobTitle,
		Name:      a.Name,
		About:     a.About,
		Owner:     capsule.RefOf(a.OwnerID),
		Team:      capsule.RefOf(a.TeamID),
	}
	switch {
	case a.OrganizationID.Present():
		id := a.OrganizationID.Value
		p.Organisation = capsule.Some(capsule.OrganisationRef{ID: &id})
	case a.OrganizationID.Null:
		p.Organisation = capsule.Null[capsule.OrganisationRef]()
	case a.OrganizationName.Present():
		p.Organisation = capsule.Some(capsule.OrganisationRef{Name: a.OrganizationName.Value})
	}
	a.ContactInfo.apply(&p)
	return p
}
