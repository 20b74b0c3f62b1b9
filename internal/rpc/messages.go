package rpc

// Empty is the request or response of calls that carry no payload.
type Empty struct{}

type LoginRequest struct {
	Name string `json:"name"`
}

type LoginResponse struct {
	IdentityToken string `json:"identityToken"`
}

type Profile struct {
	FullName                string `json:"fullName"`
	PhoneNumber             string `json:"phoneNumber"`
	Email                   string `json:"email"`
	DateOfBirth             string `json:"dateOfBirth"`
	Nationality             string `json:"nationality"`
	StateOfResidence        string `json:"stateOfResidence"`
	Role                    string `json:"role"`
	AcceptedCustomerTerms   bool   `json:"acceptedCustomerTerms"`
	AcceptedStoreOwnerTerms bool   `json:"acceptedStoreOwnerTerms"`
	IsSuspended             bool   `json:"isSuspended"`
}

// GetProfileResponse carries a nil Profile when the caller has none yet.
type GetProfileResponse struct {
	Profile *Profile `json:"profile,omitempty"`
}

type SaveProfileRequest struct {
	Profile Profile `json:"profile"`
}

type TermsRequest struct {
	Terms string `json:"terms"`
}

type HasAcceptedTermsResponse struct {
	Accepted bool `json:"accepted"`
}

type TermsContentResponse struct {
	Content string `json:"content"`
}

type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

type PlaceOrderRequest struct {
	StoreID       string      `json:"storeId"`
	Items         []OrderItem `json:"items"`
	TableNumber   string      `json:"tableNumber,omitempty"`
	SpecialNote   string      `json:"specialNote,omitempty"`
	PaymentMethod string      `json:"paymentMethod"`
}

type PlaceOrderResponse struct {
	OrderID string `json:"orderId"`
}
