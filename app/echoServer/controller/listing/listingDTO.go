package listing

// CreateListingForm is the multipart body of POST /listings. The image
// travels as the "image" file part. TotalPrice is shown by the client and
// ignored here.
type CreateListingForm struct {
	Title            string `form:"title"`
	Size             string `form:"size"`
	ItemType         string `form:"itemType"`
	Condition        string `form:"condition"`
	WashInstructions string `form:"washInstructions"`
	StartDate        string `form:"startDate"`
	EndDate          string `form:"endDate"`
	PricePerDay      string `form:"pricePerDay"`
	TotalPrice       string `form:"totalPrice"`
}
