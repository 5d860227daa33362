package storage

// Seed holds the records a store starts with.
type Seed struct {
	Contacts []Contact
	Payments []Payment
}

// DefaultSeed returns the demo CRM data served by the wrapper.
func DefaultSeed() Seed {
	return Seed{
		Contacts: []Contact{
			{
				ID:              "1",
				Name:            "John Smith",
				Email:           "john.smith@example.com",
				Company:         "Acme Corp",
				Phone:           "+1-555-0123",
				LastInteraction: "2024-10-08",
				Status:          "active",
			},
			{
				ID:              "2",
				Name:            "Sarah Johnson",
				Email:           "sarah.j@techstart.com",
				Company:         "TechStart Inc",
				Phone:           "+1-555-0456",
				LastInteraction: "2024-10-07",
				Status:          "prospect",
			},
		},
		Payments: []Payment{
			{
				ID:          "pay_001",
				ContactID:   "1",
				Amount:      1250.00,
				Currency:    "USD",
				Status:      "completed",
				Date:        "2024-10-08",
				Description: "Monthly subscription",
			},
		},
	}
}
