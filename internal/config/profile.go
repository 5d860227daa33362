package config

import (
	"net/http"
	"time"
)

// Environment names understood by Resolve.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
	EnvDefault     = "default"
)

// InsecureDevSecretKey signs session cookies when SECRET_KEY is unset.
// Insecure default: override in deployment.
const InsecureDevSecretKey = "savi-dev-key-change-in-production"

const (
	appName    = "Savi CustomGPT Testing Wrapper"
	appVersion = "1.0.0"

	defaultCustomGPTProjectID  = "82753"
	defaultCustomGPTProjectKey = "ea4e59faa461427ca9e80161e2de77c0"
	defaultCustomGPTBaseURL    = "https://app.customgpt.ai/api/v1"
	defaultCustomGPTEmbedURL   = "https://cdn.customgpt.ai/js/embed.js"

	defaultDatabaseURL = "sqlite:///savi.db"
	testingDatabaseURL = "sqlite:///:memory:"
	defaultRedisURL    = "redis://localhost:6379/0"

	maxContentLength    = 16 * 1024 * 1024
	defaultUploadFolder = "uploads"

	defaultLogLevel = "INFO"
	defaultLogFile  = "logs/savi.log"

	productionStaticMaxAge = 365 * 24 * time.Hour
)

// SameSite mirrors the SameSite cookie attribute values.
type SameSite string

const (
	SameSiteLax    SameSite = "Lax"
	SameSiteStrict SameSite = "Strict"
	SameSiteNone   SameSite = "None"
)

// HTTP converts the policy value to its net/http counterpart.
func (s SameSite) HTTP() http.SameSite {
	switch s {
	case SameSiteStrict:
		return http.SameSiteStrictMode
	case SameSiteNone:
		return http.SameSiteNoneMode
	case SameSiteLax:
		return http.SameSiteLaxMode
	default:
		return http.SameSiteDefaultMode
	}
}

// CookiePolicy controls the attributes of the session cookie.
type CookiePolicy struct {
	Secure   bool
	HTTPOnly bool
	SameSite SameSite
}

// CustomGPT identifies the embedded chat widget project.
type CustomGPT struct {
	APIKey     string
	ProjectID  string
	ProjectKey string
	BaseURL    string
	EmbedURL   string
}

// CRM points at an external CRM. Both fields are optional.
type CRM struct {
	APIURL string
	APIKey string
}

// Profile is a named bundle of settings selected by environment name.
type Profile struct {
	Name    string
	Debug   bool
	Testing bool

	SecretKey  string
	AppName    string
	AppVersion string

	CustomGPT CustomGPT
	CRM       CRM

	DatabaseURL string
	RedisURL    string

	MaxContentLength int64
	UploadFolder     string

	LogLevel string
	LogFile  string

	Cookie       CookiePolicy
	StaticMaxAge time.Duration
}

// UsesInsecureSecret reports whether the profile still signs with InsecureDevSecretKey.
func (p Profile) UsesInsecureSecret() bool {
	return p.SecretKey == InsecureDevSecretKey
}

var profiles = map[string]Profile{
	EnvDevelopment: developmentProfile(),
	EnvProduction:  productionProfile(),
	EnvTesting:     testingProfile(),
	EnvDefault:     developmentProfile(),
}

// Resolve returns the profile registered under name. Unknown and empty names
// resolve to the default (development) profile.
func Resolve(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	return profiles[EnvDefault]
}

func baseProfile() Profile {
	return Profile{
		SecretKey:  InsecureDevSecretKey,
		AppName:    appName,
		AppVersion: appVersion,
		CustomGPT: CustomGPT{
			ProjectID:  defaultCustomGPTProjectID,
			ProjectKey: defaultCustomGPTProjectKey,
			BaseURL:    defaultCustomGPTBaseURL,
			EmbedURL:   defaultCustomGPTEmbedURL,
		},
		DatabaseURL:      defaultDatabaseURL,
		RedisURL:         defaultRedisURL,
		MaxContentLength: maxContentLength,
		UploadFolder:     defaultUploadFolder,
		LogLevel:         defaultLogLevel,
		LogFile:          defaultLogFile,
		Cookie: CookiePolicy{
			Secure:   true,
			HTTPOnly: true,
			SameSite: SameSiteLax,
		},
	}
}

func developmentProfile() Profile {
	p := baseProfile()
	p.Name = EnvDevelopment
	p.Debug = true
	p.Cookie.Secure = false
	return p
}

func productionProfile() Profile {
	p := baseProfile()
	p.Name = EnvProduction
	p.Cookie = CookiePolicy{
		Secure:   true,
		HTTPOnly: true,
		SameSite: SameSiteStrict,
	}
	p.StaticMaxAge = productionStaticMaxAge
	return p
}

func testingProfile() Profile {
	p := baseProfile()
	p.Name = EnvTesting
	p.Debug = true
	p.Testing = true
	p.DatabaseURL = testingDatabaseURL
	p.Cookie.Secure = false
	return p
}
