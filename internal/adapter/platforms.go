package adapter

// Field candidate lists mirror the shapes each platform is known to send.

func normalizeInternshala(p Payload) EngagementAttrs {
	return EngagementAttrs{
		Company:     p.str("company_name", "employer"),
		Role:        p.str("position", "role", "profile"),
		StartDate:   p.date("start_date"),
		EndDate:     p.date("end_date"),
		Description: p.str("responsibilities", "work_description", "description"),
	}
}

func normalizeAngellist(p Payload) EngagementAttrs {
	company := firstNonEmpty(p.nestedStr("company.name"), p.str("startup_name"))
	desc := p.str("description")
	if desc == "" && company != "" {
		desc = "Internship at " + company
	}
	return EngagementAttrs{
		Company:     company,
		Role:        p.str("title", "position"),
		StartDate:   p.date("started_at"),
		EndDate:     p.date("ended_at"),
		Description: desc,
	}
}

func normalizeLinkedin(p Payload) EngagementAttrs {
	return EngagementAttrs{
		Company:     p.str("companyName", "company"),
		Role:        p.str("title"),
		StartDate:   p.yearMonth("startDate"),
		EndDate:     p.yearMonth("endDate"),
		Description: p.str("description"),
	}
}

func normalizeDevfolio(p Payload) EngagementAttrs {
	return EngagementAttrs{
		Company:     p.str("hackathon_name", "event_name"),
		Role:        p.str("project_title", "submission_title"),
		StartDate:   p.date("start_date"),
		EndDate:     p.date("end_date"),
		Description: p.str("project_description", "description"),
	}
}

func normalizeDevpost(p Payload) EngagementAttrs {
	submitted := p.date("submission_date")
	return EngagementAttrs{
		Company:     firstNonEmpty(p.nestedStr("hackathon.title"), p.str("challenge_name")),
		Role:        p.str("title", "project_name"),
		StartDate:   submitted,
		EndDate:     submitted,
		Description: p.str("tagline", "description"),
	}
}

func normalizeMLH(p Payload) EngagementAttrs {
	company := p.str("event_name")
	if company == "" {
		company = "MLH Hackathon"
	}
	return EngagementAttrs{
		Company:     company,
		Role:        p.str("project_name"),
		StartDate:   p.date("event_start"),
		EndDate:     p.date("event_end"),
		Description: p.str("project_description"),
	}
}

func normalizeCoursera(p Payload) CourseAttrs {
	return CourseAttrs{
		Title:         p.str("course_name", "name"),
		Issuer:        "Coursera",
		CredentialID:  p.str("certificate_id", "id"),
		CredentialURL: p.str("certificate_url", "url"),
		IssuedAt:      p.date("completion_date"),
	}
}

func normalizeUdemy(p Payload) CourseAttrs {
	return CourseAttrs{
		Title:         p.str("course_title", "name"),
		Issuer:        "Udemy",
		CredentialID:  p.str("cert_id", "certificate_id"),
		CredentialURL: p.str("cert_link", "certificate_url"),
		IssuedAt:      p.date("completed_at"),
	}
}
