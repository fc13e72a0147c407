package memory

import (
	"time"

	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
)

// Seed fills s with the demo data set the dashboard starts with.
// Dates are relative to now so "expiring soon" and "recent activity" stay meaningful.
// adminHash is the bcrypt hash installed on every seeded staff account.
func Seed(s *Store, now time.Time, adminHash string) {
	day := 24 * time.Hour
	at := func(d time.Duration) time.Time { return now.Add(d).UTC() }
	ptr := func(t time.Time) *time.Time { return &t }

	investors := []entity.Investor{
		{ID: "inv-1001", Name: "Northbridge Pension Fund", Type: entity.InvestorInstitutional, Email: "ops@northbridge.example"},
		{ID: "inv-1002", Name: "Elena Marsh", Type: entity.InvestorIndividual, Email: "elena.marsh@example.com"},
		{ID: "inv-1003", Name: "Calder Family Office", Type: entity.InvestorFamilyOffice, Email: "office@calder.example"},
		{ID: "inv-1004", Name: "Meridian FoF III", Type: entity.InvestorFundOfFunds, Email: "lp@meridian.example"},
	}
	for i := range investors {
		investors[i].CreatedAt = at(-400 * day)
		must(s.investors.insert(investors[i]))
	}

	users := []entity.User{
		{ID: "usr-0001", Email: "admin@pulse.example", Name: "Avery Admin", Role: entity.RoleAdmin},
		{ID: "usr-0002", Email: "morgan@pulse.example", Name: "Morgan Lee", Role: entity.RoleManager},
		{ID: "usr-0003", Email: "sam@pulse.example", Name: "Sam Patel", Role: entity.RoleAnalyst},
		{ID: "usr-0004", Email: "riley@pulse.example", Name: "Riley Chen", Role: entity.RoleViewer, Status: entity.UserInactive},
		{ID: "usr-0005", Email: "elena.marsh@example.com", Name: "Elena Marsh", Role: entity.RoleInvestor, InvestorID: "INV-24-ELE-0042"},
	}
	for i := range users {
		u := users[i]
		if u.Status == "" {
			u.Status = entity.UserActive
		}
		u.Permissions = entity.DefaultPermissions(u.Role)
		u.PasswordHash = adminHash
		u.CreatedAt = at(-300 * day)
		u.UpdatedAt = u.CreatedAt
		must(s.users.insert(u))
	}

	reviews := []entity.KYCReview{
		{
			ID: "kyc-2001", InvestorID: "inv-1001", RiskLevel: entity.RiskLow, Status: entity.KYCApproved,
			LastReviewDate: at(-90 * day), NextReviewDate: at(275 * day), UpdatedAt: at(-2 * day),
			Documents: []entity.KYCDocument{
				{ID: "kdoc-1", Name: "Certificate of Incorporation", Type: "corporate", Status: entity.KYCDocValid, ExpiryDate: ptr(at(400 * day))},
				{ID: "kdoc-2", Name: "Authorised Signatories", Type: "corporate", Status: entity.KYCDocValid, ExpiryDate: ptr(at(12 * day))},
			},
		},
		{
			ID: "kyc-2002", InvestorID: "inv-1002", RiskLevel: entity.RiskMedium, Status: entity.KYCPendingReview,
			LastReviewDate: at(-370 * day), NextReviewDate: at(-5 * day), UpdatedAt: at(-1 * day),
			Documents: []entity.KYCDocument{
				{ID: "kdoc-3", Name: "Passport", Type: "identity", Status: entity.KYCDocPendingReview, ExpiryDate: ptr(at(25 * day))},
				{ID: "kdoc-4", Name: "Proof of Address", Type: "address", Status: entity.KYCDocExpired, ExpiryDate: ptr(at(-10 * day))},
			},
		},
		{
			ID: "kyc-2003", InvestorID: "inv-1003", RiskLevel: entity.RiskHigh, Status: entity.KYCPendingReview,
			LastReviewDate: at(-30 * day), NextReviewDate: at(60 * day), UpdatedAt: at(-6 * time.Hour),
			Documents: []entity.KYCDocument{
				{ID: "kdoc-5", Name: "Source of Wealth Statement", Type: "financial", Status: entity.KYCDocPendingReview},
			},
		},
		{
			ID: "kyc-2004", InvestorID: "inv-1004", RiskLevel: entity.RiskMedium, Status: entity.KYCRejected,
			LastReviewDate: at(-15 * day), NextReviewDate: at(15 * day), UpdatedAt: at(-10 * day),
		},
	}
	byID := map[string]entity.Investor{}
	for _, inv := range investors {
		byID[inv.ID] = inv
	}
	for i := range reviews {
		r := reviews[i]
		inv := byID[r.InvestorID]
		r.Investor = entity.InvestorRef{Name: inv.Name, Type: inv.Type}
		r.CreatedAt = r.LastReviewDate
		if r.Documents == nil {
			r.Documents = []entity.KYCDocument{}
		}
		for j := range r.Documents {
			r.Documents[j].ReviewID = r.ID
			r.Documents[j].URL = "memory://kyc/" + r.ID + "/" + r.Documents[j].ID
			r.Documents[j].CreatedAt = r.LastReviewDate
		}
		must(s.kyc.insert(r))
	}

	items := []entity.DueDiligenceItem{
		{ID: "dd-3001", CompanyName: "Helix Robotics", Type: entity.DDInitialInvestment, Status: entity.DDInProgress, Priority: entity.PriorityHigh, AssignedTo: "Sam Patel", Progress: 45, StartDate: at(-20 * day), DueDate: at(10 * day)},
		{ID: "dd-3002", CompanyName: "Bluewater Logistics", Type: entity.DDFollowOn, Status: entity.DDUnderReview, Priority: entity.PriorityMedium, AssignedTo: "Morgan Lee", Progress: 80, StartDate: at(-45 * day), DueDate: at(3 * day)},
		{ID: "dd-3003", CompanyName: "Quarry Analytics", Type: entity.DDExit, Status: entity.DDNotStarted, Priority: entity.PriorityLow, AssignedTo: "Sam Patel", Progress: 0, StartDate: at(5 * day), DueDate: at(60 * day)},
		{ID: "dd-3004", CompanyName: "Lumen Health", Type: entity.DDInitialInvestment, Status: entity.DDCompleted, Priority: entity.PriorityHigh, AssignedTo: "Avery Admin", Progress: 100, StartDate: at(-120 * day), DueDate: at(-30 * day)},
	}
	for i := range items {
		d := items[i]
		d.Documents = []entity.DDDocument{}
		d.Comments = []entity.DDComment{}
		d.CreatedAt = d.StartDate
		d.UpdatedAt = d.StartDate
		must(s.dueDiligence.insert(d))
	}

	comms := []entity.Communication{
		{
			ID: "com-4001", Type: entity.CommAnnouncement, Subject: "Q3 capital account statements", Content: "Statements for Q3 are now available in the portal.",
			Sender: "morgan@pulse.example", Recipients: []string{"inv-1001", "inv-1002", "inv-1003"}, Status: entity.CommSent, SentDate: ptr(at(-3 * day)),
			Metadata: entity.CommunicationMetadata{
				ReadBy:         []string{"inv-1001", "inv-1003"},
				DeliveryStatus: map[string]string{"inv-1001": entity.DeliveryDelivered, "inv-1002": entity.DeliveryDelivered, "inv-1003": entity.DeliveryDelivered},
			},
		},
		{
			ID: "com-4002", Type: entity.CommEmail, Subject: "Capital call notice: Fund II", Content: "A capital call of 5% of commitments is due in 10 business days.",
			Sender: "admin@pulse.example", Recipients: []string{"inv-1001", "inv-1004"}, Status: entity.CommScheduled, ScheduledDate: ptr(at(2 * day)),
		},
		{
			ID: "com-4003", Type: entity.CommMessage, Subject: "KYC follow-up", Content: "Please upload an updated proof of address.",
			Sender: "sam@pulse.example", Recipients: []string{"inv-1002"}, Status: entity.CommDraft,
		},
	}
	for i := range comms {
		c := comms[i]
		c.Attachments = []entity.Attachment{}
		if c.Metadata.ReadBy == nil {
			c.Metadata.ReadBy = []string{}
		}
		if c.Metadata.DeliveryStatus == nil {
			c.Metadata.DeliveryStatus = map[string]string{}
		}
		c.CreatedAt = at(-7 * day)
		c.UpdatedAt = c.CreatedAt
		must(s.communications.insert(c))
	}

	docs := []entity.Document{
		{ID: "doc-5001", Title: "Fund II Limited Partnership Agreement", Type: "legal", Date: at(-700 * day), InvestorID: "inv-1001", ProjectID: "fund-2"},
		{ID: "doc-5002", Title: "Q3 Capital Account Statement", Type: "statement", Date: at(-3 * day), InvestorID: "inv-1002", ProjectID: "fund-2"},
		{ID: "doc-5003", Title: "Helix Robotics Investment Memo", Type: "memo", Date: at(-15 * day), ProjectID: "dd-3001"},
	}
	for i := range docs {
		d := docs[i]
		d.URL = "memory://documents/" + d.ID
		d.CreatedAt = d.Date
		must(s.documents.insert(d))
	}

	funds := []entity.Fund{
		{ID: "fund-1", Name: "PULSE Capital Fund I", Vintage: 2016, AUM: 180e6, Committed: 250e6, Called: 240e6, Distributed: 310e6, IRR: 18.4, Multiple: 2.05},
		{ID: "fund-2", Name: "PULSE Capital Fund II", Vintage: 2020, AUM: 420e6, Committed: 500e6, Called: 360e6, Distributed: 90e6, IRR: 14.1, Multiple: 1.42},
		{ID: "fund-3", Name: "PULSE Growth Opportunities", Vintage: 2023, AUM: 150e6, Committed: 300e6, Called: 120e6, Distributed: 0, IRR: 9.7, Multiple: 1.08},
	}
	for i := range funds {
		f := funds[i]
		f.UpdatedAt = at(-1 * day)
		must(s.funds.insert(f))
	}
}

// must panics on a seed row that cannot be inserted; seed ids are fixed.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
