// Package monetico builds sealed Monetico hosted-payment-page requests.
// The core library (package monetico/monetico) validates a capture request,
// serializes it into the processor's fixed field order and seals it with an
// HMAC-SHA1 MAC derived from the merchant's security key. The surrounding
// service exposes that library over HTTP for multiple merchants.
//
// # Overview
//
// A hosted payment page flow never touches card data: the merchant site
// posts a signed field map to the processor, the shopper pays on the
// processor's page, and the processor redirects back. The hard part is
// producing the field map exactly as the processor expects it, because the
// seal is computed over the serialized form and any drift invalidates it.
//
// # Quick Start
//
//	processor, err := monetico.New("1234567", securityKey, "mycompany")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	request, err := monetico.NewCaptureRequest(monetico.CaptureParams{
//		Reference:  monetico.NewReference(),
//		Language:   "FR",
//		Email:      "shopper@example.com",
//		Amount:     monetico.NewMoneyFromFloat(42.42),
//		Currency:   "EUR",
//		DateTime:   time.Now(),
//		SuccessURL: "https://shop.example.com/success",
//		ErrorURL:   "https://shop.example.com/error",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fields := processor.PaymentFields(request)
//	// Render fields as hidden inputs posting to monetico.PaymentURL(testMode).
//
// # Service
//
// cmd/main.go runs an HTTP gateway: merchants are stored in SQLite with
// their EPT code, company code and security key, and POST /v1/checkout/{merchant}
// returns the payment URL plus the sealed field map for that merchant.
// Checkout traffic can be shipped to OpenSearch for auditing.
package monetico
