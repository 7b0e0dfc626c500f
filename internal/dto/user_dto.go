package dto

import "time"

type PhoneRequest struct {
	CountryCode string `json:"countryCode"`
	Number      string `json:"number"`
}

type SearchUserRequest struct {
	Phone *PhoneRequest `json:"phone"`
}

type CreateUserRequest struct {
	NRIC          string        `json:"nric"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	DOB           *time.Time    `json:"dob"`
	Race          string        `json:"race"`
	Gender        string        `json:"gender"`
	NoOfChildren  int           `json:"noOfChildren"`
	MaritalStatus string        `json:"maritalStatus"`
	Occupation    string        `json:"occupation"`
	PostalCode    string        `json:"postalCode"`
	BlockHseNo    string        `json:"blockHseNo"`
	FloorNo       string        `json:"floorNo"`
	UnitNo        string        `json:"unitNo"`
	Address       string        `json:"address"`
	FlatType      string        `json:"flatType"`
	Phone         *PhoneRequest `json:"phone"`
}

type CreateKioskManagerRequest struct {
	Email      string        `json:"email"`
	FirstName  string        `json:"firstName"`
	LastName   string        `json:"lastName"`
	KioskPhone *PhoneRequest `json:"kioskPhone"`
}
