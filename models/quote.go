package models

// QuickQuoteRequest is the inbound payload for a quick quote. Source and
// ExternalReferenceID may be omitted; the pipeline fills them in from the
// provider configuration and the local submission id before the call.
type QuickQuoteRequest struct {
	Source              string    `json:"source"`
	ExternalReferenceID string    `json:"externalReferenceId"`
	Vehicles            []Vehicle `json:"vehicles" binding:"required,min=1,dive"`
}

// Vehicle describes one vehicle to be quoted.
type Vehicle struct {
	Year                      int     `json:"year" binding:"required,min=1900,max=2100"`
	Make                      string  `json:"make" binding:"required"`
	Model                     string  `json:"model" binding:"required"`
	MMCode                    string  `json:"mmCode"`
	Modified                  string  `json:"modified" binding:"required,oneof=Y N"`
	Category                  string  `json:"category" binding:"required,oneof=SUV HB SD CP SAV DC SC MPV CB SW XO HT RV CC PV BS DS"`
	Colour                    string  `json:"colour" binding:"required"`
	EngineSize                float64 `json:"engineSize" binding:"required,gt=0"`
	Financed                  string  `json:"financed" binding:"required,oneof=Y N"`
	Owner                     string  `json:"owner" binding:"required,oneof=Y N"`
	Status                    string  `json:"status" binding:"required,oneof=New SecondHand"`
	PartyIsRegularDriver      string  `json:"partyIsRegularDriver" binding:"required,oneof=Y N"`
	Accessories               string  `json:"accessories" binding:"required,oneof=Y N"`
	AccessoriesAmount         float64 `json:"accessoriesAmount" binding:"min=0"`
	RetailValue               float64 `json:"retailValue" binding:"required,gt=0"`
	MarketValue               float64 `json:"marketValue" binding:"required,gt=0"`
	InsuredValueType          string  `json:"insuredValueType" binding:"required,oneof=Retail Market"`
	UseType                   string  `json:"useType" binding:"required,oneof=Private Commercial BusinessUse"`
	OvernightParkingSituation string  `json:"overnightParkingSituation" binding:"required,oneof=Garage Carport InTheOpen Unconfirmed"`
	CoverCode                 string  `json:"coverCode" binding:"required,oneof=Comprehensive"`
	Address                   Address `json:"address" binding:"required"`
	RegularDriver             Driver  `json:"regularDriver" binding:"required"`
}

// Address is the location where a vehicle is primarily kept.
type Address struct {
	AddressLine string  `json:"addressLine" binding:"required"`
	PostalCode  int     `json:"postalCode" binding:"required,min=0"`
	Suburb      string  `json:"suburb" binding:"required"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Driver is the regular driver of a vehicle. Date fields serialize as
// ISO-8601 via the Date type.
type Driver struct {
	MaritalStatus          string `json:"maritalStatus" binding:"required,oneof=Single Married Divorced Widowed LivingTogether Annulment"`
	CurrentlyInsured       bool   `json:"currentlyInsured"`
	YearsWithoutClaims     int    `json:"yearsWithoutClaims" binding:"min=0"`
	RelationToPolicyHolder string `json:"relationToPolicyHolder" binding:"required,oneof=Self Spouse Child Other"`
	EmailAddress           string `json:"emailAddress" binding:"required,email"`
	MobileNumber           string `json:"mobileNumber" binding:"required"`
	IDNumber               string `json:"idNumber" binding:"required,len=13"`
	PrvInsLosses           int    `json:"prvInsLosses" binding:"min=0"`
	LicenseIssueDate       Date   `json:"licenseIssueDate" binding:"required"`
	DateOfBirth            Date   `json:"dateOfBirth" binding:"required"`
}

// QuoteResult is one premium/excess pair returned by the provider.
type QuoteResult struct {
	Premium float64 `json:"premium"`
	Excess  float64 `json:"excess"`
}

// QuickQuoteResponse is the provider's quick quote response envelope.
type QuickQuoteResponse struct {
	Success bool          `json:"success"`
	ID      string        `json:"id"`
	Data    []QuoteResult `json:"data"`
}
