package normalize

import "github.com/jobsift/jobsift/internal/model"

// countryAlpha2 maps provider-native country spellings to ISO alpha-2 codes.
// Both codes and common names appear because providers disagree on which
// they send.
var countryAlpha2 = map[string]string{
	"in": "IN", "india": "IN",
	"us": "US", "usa": "US", "united states": "US", "united states of america": "US",
	"gb": "GB", "uk": "GB", "united kingdom": "GB", "great britain": "GB",
	"ca": "CA", "canada": "CA",
	"au": "AU", "australia": "AU",
	"de": "DE", "germany": "DE",
	"fr": "FR", "france": "FR",
	"nl": "NL", "netherlands": "NL",
	"sg": "SG", "singapore": "SG",
	"ae": "AE", "united arab emirates": "AE", "uae": "AE",
	"ie": "IE", "ireland": "IE",
	"es": "ES", "spain": "ES",
	"it": "IT", "italy": "IT",
	"pl": "PL", "poland": "PL",
	"br": "BR", "brazil": "BR",
	"mx": "MX", "mexico": "MX",
	"jp": "JP", "japan": "JP",
	"nz": "NZ", "new zealand": "NZ",
	"za": "ZA", "south africa": "ZA",
}

// currencyByCountry maps an ISO country to its ISO currency code.
var currencyByCountry = map[string]string{
	"IN": "INR",
	"US": "USD",
	"GB": "GBP",
	"CA": "CAD",
	"AU": "AUD",
	"DE": "EUR",
	"FR": "EUR",
	"NL": "EUR",
	"IE": "EUR",
	"ES": "EUR",
	"IT": "EUR",
	"SG": "SGD",
	"AE": "AED",
	"PL": "PLN",
	"BR": "BRL",
	"MX": "MXN",
	"JP": "JPY",
	"NZ": "NZD",
	"ZA": "ZAR",
}

// jobTypeVocab maps provider job-type spellings to the canonical enum.
// Matching is case-insensitive; unmatched values default to full-time.
var jobTypeVocab = map[string]model.JobType{
	"full-time": model.JobTypeFullTime,
	"full_time": model.JobTypeFullTime,
	"fulltime":  model.JobTypeFullTime,
	"full time": model.JobTypeFullTime,
	"permanent": model.JobTypeFullTime,

	"part-time": model.JobTypePartTime,
	"part_time": model.JobTypePartTime,
	"parttime":  model.JobTypePartTime,
	"part time": model.JobTypePartTime,

	"contract":   model.JobTypeContract,
	"contractor": model.JobTypeContract,

	"internship": model.JobTypeInternship,
	"intern":     model.JobTypeInternship,

	"temporary": model.JobTypeTemporary,
	"temp":      model.JobTypeTemporary,

	"freelance":  model.JobTypeFreelance,
	"freelancer": model.JobTypeFreelance,
}

// experienceVocab maps provider seniority spellings to the canonical enum.
// Unmatched values default to mid.
var experienceVocab = map[string]model.ExperienceLevel{
	"entry":       model.ExperienceEntry,
	"entry-level": model.ExperienceEntry,
	"entry level": model.ExperienceEntry,
	"junior":      model.ExperienceEntry,
	"graduate":    model.ExperienceEntry,
	"trainee":     model.ExperienceEntry,

	"mid":          model.ExperienceMid,
	"mid-level":    model.ExperienceMid,
	"mid level":    model.ExperienceMid,
	"intermediate": model.ExperienceMid,
	"associate":    model.ExperienceMid,

	"senior":    model.ExperienceSenior,
	"lead":      model.ExperienceSenior,
	"principal": model.ExperienceSenior,
	"staff":     model.ExperienceSenior,

	"executive": model.ExperienceExecutive,
	"director":  model.ExperienceExecutive,
	"vp":        model.ExperienceExecutive,
	"chief":     model.ExperienceExecutive,
	"head":      model.ExperienceExecutive,
}

// experienceTitleScan is the ordered fallback scan applied to job titles
// when no explicit seniority string is given. Order is the tie-break:
// executive beats senior beats entry when a title contains several tokens.
var experienceTitleScan = []struct {
	token string
	level model.ExperienceLevel
}{
	{"chief", model.ExperienceExecutive},
	{"director", model.ExperienceExecutive},
	{"vp ", model.ExperienceExecutive},
	{"head of", model.ExperienceExecutive},
	{"principal", model.ExperienceSenior},
	{"staff", model.ExperienceSenior},
	{"senior", model.ExperienceSenior},
	{"lead", model.ExperienceSenior},
	{"sr.", model.ExperienceSenior},
	{"junior", model.ExperienceEntry},
	{"graduate", model.ExperienceEntry},
	{"intern", model.ExperienceEntry},
	{"entry", model.ExperienceEntry},
	{"jr.", model.ExperienceEntry},
}

// postedAtLayouts are the timestamp formats providers have been seen to use,
// tried in order. Reed sends day-first dates.
var postedAtLayouts = []string{
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z07:00", // RFC3339
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}
