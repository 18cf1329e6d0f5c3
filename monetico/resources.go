package monetico

// Order-context resources attached to a capture request. They are typed
// structs rather than open parameter bags so that a misspelled parameter is
// a compile error, and they flatten into the processor's order-context
// envelope on serialization. Empty optional fields are omitted entirely.

// BillingAddress is the cardholder billing address.
type BillingAddress struct {
	AddressLine1    string `json:"addressLine1"`
	AddressLine2    string `json:"addressLine2,omitempty"`
	AddressLine3    string `json:"addressLine3,omitempty"`
	City            string `json:"city"`
	PostalCode      string `json:"postalCode"`
	Country         string `json:"country"`
	StateOrProvince string `json:"stateOrProvince,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	MobilePhone     string `json:"mobilePhone,omitempty"`
}

// NewBillingAddress builds a billing address from its required parts.
func NewBillingAddress(addressLine1, city, postalCode, country string) BillingAddress {
	return BillingAddress{
		AddressLine1: addressLine1,
		City:         city,
		PostalCode:   postalCode,
		Country:      country,
	}
}

// ShippingAddress is the delivery address.
type ShippingAddress struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	AddressLine3 string `json:"addressLine3,omitempty"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// NewShippingAddress builds a shipping address from its required parts.
func NewShippingAddress(addressLine1, city, postalCode, country string) ShippingAddress {
	return ShippingAddress{
		AddressLine1: addressLine1,
		City:         city,
		PostalCode:   postalCode,
		Country:      country,
	}
}

// Client describes the purchasing customer.
type Client struct {
	Civility  string `json:"civility,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// CartItem is one line of the shopping cart. UnitPrice is expressed in
// currency minor units as required by the processor.
type CartItem struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	ProductCode string `json:"productCode,omitempty"`
	UnitPrice   int64  `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
}

// Cart is the shopping cart resource.
type Cart struct {
	Items []CartItem `json:"shoppingCartItems"`
}

// AddItem appends one line to the cart.
func (c *Cart) AddItem(item CartItem) {
	c.Items = append(c.Items, item)
}
