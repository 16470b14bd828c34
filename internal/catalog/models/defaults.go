package models

// DefaultNavItems is the compiled-in navigation seed used on fresh installs
// and when an older document carries no nav items at all.
func DefaultNavItems() []NavItem {
	return []NavItem{
		{ID: 1, Name: "Home", Path: "/", Icon: "home", Order: 0},
		{ID: 2, Name: "Courses", Path: "/courses", Icon: "book", Order: 1},
		{ID: 3, Name: "Syllabus", Path: "/syllabus", Icon: "file-alt", Order: 2},
		{ID: 4, Name: "PYQ", Path: "/pyq", Icon: "question-circle", Order: 3},
		{ID: 5, Name: "Free E-Book and Notes", Path: "/downloads", Icon: "book-open", Order: 4},
		{ID: 6, Name: "Contact", Path: "/contact", Icon: "envelope", Order: 5},
	}
}

func floatPtr(v float64) *float64 { return &v }

// DefaultDocument returns the compiled-in seed catalog used on a fresh
// install. Callers receive a fresh value on every call, so mutating the
// result never bleeds into later defaults.
func DefaultDocument() *Document {
	return &Document{
		ClassroomName: "Triveni Classes",
		Home: HomeContent{
			Title:       "Welcome to Triveni Classes",
			Subtitle:    "Your Path to Success!",
			Intro:       "We are a premier coaching institute dedicated to providing top-quality education and guidance to help students achieve their academic and career goals.",
			BannerImage: "https://picsum.photos/seed/banner/1200/400",
		},
		PaymentDetails: PaymentDetails{
			UPIID:     "triveniprasadjsr-1@okicici",
			UPINumber: "9470392954",
		},
		Courses: []Course{
			{
				ID:          1,
				Name:        "Advanced Physics",
				Description: "Master the concepts of modern physics.",
				Instructor:  "Dr. Anjali Sharma",
				Duration:    "60 Classes",
				Fee:         199,
				OriginalFee: floatPtr(299),
				Lectures: []Lecture{
					{ID: 1, Title: "Intro to Quantum Mechanics", Description: "A gentle introduction."},
					{ID: 2, Title: "Special Relativity", Description: "Exploring spacetime."},
				},
				RegistrationStartDate:  "2024-07-01",
				RegistrationEndDate:    "2024-07-31",
				ClassStartDate:         "2024-08-01",
				ValidityEndDate:        "2025-01-31",
				Language:               "English",
				CourseType:             "Live + Recorded",
				HasDownloadableContent: true,
				ValidityPeriod:         "6 Months",
			},
			{
				ID:                     2,
				Name:                   "Organic Chemistry",
				Description:            "Dive deep into carbon compounds.",
				Instructor:             "Prof. Rohan Verma",
				Duration:               "50 Classes",
				Fee:                    199,
				OriginalFee:            floatPtr(249),
				Lectures:               []Lecture{},
				RegistrationStartDate:  "2024-07-01",
				RegistrationEndDate:    "2024-07-31",
				ClassStartDate:         "2024-08-01",
				ValidityEndDate:        "2025-01-31",
				Language:               "Hindi & English (Hinglish)",
				CourseType:             "Recorded",
				HasDownloadableContent: true,
				ValidityPeriod:         "6 Months",
			},
			{
				ID:                    3,
				Name:                  "Calculus I",
				Description:           "Build a strong foundation in calculus.",
				Instructor:            "Mr. Raj Kumar",
				Duration:              "40 Classes",
				Fee:                   199,
				Lectures:              []Lecture{},
				RegistrationStartDate: "2024-07-01",
				RegistrationEndDate:   "2024-07-31",
				ClassStartDate:        "2024-08-01",
				ValidityEndDate:       "2025-01-31",
				Language:              "English",
				CourseType:            "Test Series",
				ValidityPeriod:        "1 Month",
			},
		},
		Tutors: []Tutor{
			{ID: 1, Name: "Dr. Priya Singh", Designation: "Physics Faculty", Qualifications: "Ph.D. in Physics", Experience: "10 Years"},
			{ID: 2, Name: "Mr. Raj Kumar", Designation: "Maths Faculty", Qualifications: "M.Sc. in Mathematics", Experience: "8 Years"},
		},
		PendingVerifications: []VerificationRequest{},
		ContactMessages:      []ContactMessage{},
		GeneralDownloads:     []GeneralDownload{},
		Syllabuses:           []Syllabus{},
		NavItems:             DefaultNavItems(),
	}
}
