package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NormalizeJobPosting converts raw provider JSON into a JobPosting. Missing
// optional strings become "" and missing arrays become []. A missing or empty
// job_title fails with ErrMalformedResponse.
func NormalizeJobPosting(raw json.RawMessage) (JobPosting, error) {
	var posting JobPosting
	if err := json.Unmarshal(raw, &posting); err != nil {
		return JobPosting{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if strings.TrimSpace(posting.JobTitle) == "" {
		return JobPosting{}, fmt.Errorf("%w: job_title is required", ErrMalformedResponse)
	}

	posting.JobTitle = strings.TrimSpace(posting.JobTitle)
	posting.Benefits = cleanList(posting.Benefits)
	posting.KeyResponsibilities = cleanList(posting.KeyResponsibilities)
	posting.RequiredSkills = cleanList(posting.RequiredSkills)
	posting.PreferredSkills = cleanList(posting.PreferredSkills)
	posting.ToolsTechnologies = cleanList(posting.ToolsTechnologies)
	posting.Certifications = cleanList(posting.Certifications)
	return posting, nil
}

// NormalizeResumeProfile converts raw provider JSON into a ResumeProfile. A
// missing or empty full_name fails with ErrMalformedResponse.
func NormalizeResumeProfile(raw json.RawMessage) (ResumeProfile, error) {
	var profile ResumeProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return ResumeProfile{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if strings.TrimSpace(profile.FullName) == "" {
		return ResumeProfile{}, fmt.Errorf("%w: full_name is required", ErrMalformedResponse)
	}

	profile.FullName = strings.TrimSpace(profile.FullName)
	profile.Skills = cleanList(profile.Skills)
	profile.Certifications = cleanList(profile.Certifications)
	if profile.WorkExperience == nil {
		profile.WorkExperience = []WorkExperience{}
	}
	if profile.Education == nil {
		profile.Education = []Education{}
	}
	if profile.Projects == nil {
		profile.Projects = []Project{}
	}
	for i := range profile.Projects {
		profile.Projects[i].Technologies = cleanList(profile.Projects[i].Technologies)
	}
	return profile, nil
}

// Keywords collects searchable keywords from a job posting: required and
// preferred skills plus tools, deduplicated case-insensitively in order.
func Keywords(posting JobPosting) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, group := range [][]string{posting.RequiredSkills, posting.PreferredSkills, posting.ToolsTechnologies} {
		for _, kw := range group {
			key := strings.ToLower(strings.TrimSpace(kw))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, strings.TrimSpace(kw))
		}
	}
	return out
}

func cleanList(in []string) []string {
	out := []string{}
	for _, v := range in {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
