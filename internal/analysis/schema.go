package analysis

// JobPosting is the normalized shape of a job-description analysis.
//
// JSON schema:
// {
//   "job_title": "string (required)",
//   "company_name": "string",
//   "employment_type": "string",
//   "work_location": "Remote | Hybrid | On-site | \"\"",
//   "location_details": "string",
//   "salary_range": "string",
//   "benefits": ["string"],
//   "job_summary": "string",
//   "key_responsibilities": ["string"],
//   "required_education": "string",
//   "required_experience": "string",
//   "required_skills": ["string"],
//   "preferred_education": "string",
//   "preferred_experience": "string",
//   "preferred_skills": ["string"],
//   "industry": "string",
//   "tools_technologies": ["string"],
//   "certifications": ["string"]
// }
type JobPosting struct {
	JobTitle            string   `json:"job_title"`
	CompanyName         string   `json:"company_name"`
	EmploymentType      string   `json:"employment_type"`
	WorkLocation        string   `json:"work_location"`
	LocationDetails     string   `json:"location_details"`
	SalaryRange         string   `json:"salary_range"`
	Benefits            []string `json:"benefits"`
	JobSummary          string   `json:"job_summary"`
	KeyResponsibilities []string `json:"key_responsibilities"`
	RequiredEducation   string   `json:"required_education"`
	RequiredExperience  string   `json:"required_experience"`
	RequiredSkills      []string `json:"required_skills"`
	PreferredEducation  string   `json:"preferred_education"`
	PreferredExperience string   `json:"preferred_experience"`
	PreferredSkills     []string `json:"preferred_skills"`
	Industry            string   `json:"industry"`
	ToolsTechnologies   []string `json:"tools_technologies"`
	Certifications      []string `json:"certifications"`
}

// ResumeProfile is the normalized shape of a resume analysis.
// full_name is the only required field.
type ResumeProfile struct {
	FullName       string           `json:"full_name"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	Location       string           `json:"location"`
	LinkedInURL    string           `json:"linkedin_url"`
	Summary        string           `json:"summary"`
	Skills         []string         `json:"skills"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Education      []Education      `json:"education"`
	Certifications []string         `json:"certifications"`
	Projects       []Project        `json:"projects"`
}

type WorkExperience struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	FieldOfStudy   string `json:"field_of_study"`
	GraduationDate string `json:"graduation_date"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}
