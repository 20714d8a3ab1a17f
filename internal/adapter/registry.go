package adapter

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrUnknownEvent    = errors.New("unknown event type for platform")
)

// Payload is the raw, platform-shaped webhook body.
type Payload map[string]any

// EngagementAttrs is the canonical attribute set for internships and
// hackathons: company + role is the natural key.
type EngagementAttrs struct {
	Company     string
	Role        string
	StartDate   *time.Time
	EndDate     *time.Time
	Description string
}

// CourseAttrs is the canonical attribute set for credentials.
type CourseAttrs struct {
	Title         string
	Issuer        string
	CredentialID  string
	CredentialURL string
	IssuedAt      *time.Time
}

type engagementFn func(Payload) EngagementAttrs
type courseFn func(Payload) CourseAttrs

// Registry maps platform names to their normalize functions, one per entity
// kind the platform can produce. Registration is explicit; an unregistered
// platform is a typed error, never a nil function call.
type Registry struct {
	internships map[string]engagementFn
	hackathons  map[string]engagementFn
	courses     map[string]courseFn
}

func NewRegistry() *Registry {
	return &Registry{
		internships: map[string]engagementFn{
			"internshala": normalizeInternshala,
			"angellist":   normalizeAngellist,
			"linkedin":    normalizeLinkedin,
		},
		hackathons: map[string]engagementFn{
			"devfolio": normalizeDevfolio,
			"devpost":  normalizeDevpost,
			"mlh":      normalizeMLH,
		},
		courses: map[string]courseFn{
			"coursera": normalizeCoursera,
			"udemy":    normalizeUdemy,
		},
	}
}

func (r *Registry) NormalizeInternship(platform string, p Payload) (EngagementAttrs, error) {
	fn, ok := r.internships[normalizePlatform(platform)]
	if !ok {
		return EngagementAttrs{}, r.platformError(platform)
	}
	return fn(p), nil
}

func (r *Registry) NormalizeHackathon(platform string, p Payload) (EngagementAttrs, error) {
	fn, ok := r.hackathons[normalizePlatform(platform)]
	if !ok {
		return EngagementAttrs{}, r.platformError(platform)
	}
	return fn(p), nil
}

func (r *Registry) NormalizeCourse(platform string, p Payload) (CourseAttrs, error) {
	fn, ok := r.courses[normalizePlatform(platform)]
	if !ok {
		return CourseAttrs{}, r.platformError(platform)
	}
	return fn(p), nil
}

// platformError distinguishes "platform known for another kind" from
// "platform entirely unknown".
func (r *Registry) platformError(platform string) error {
	key := normalizePlatform(platform)
	if _, ok := r.internships[key]; ok {
		return ErrUnknownEvent
	}
	if _, ok := r.hackathons[key]; ok {
		return ErrUnknownEvent
	}
	if _, ok := r.courses[key]; ok {
		return ErrUnknownEvent
	}
	return ErrUnknownPlatform
}

func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}
