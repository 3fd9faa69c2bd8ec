// validation/hrn.go
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sentra-iam/sentra/model"
)

const (
	hrnDocLink      = "https://docs.sentra.dev/hrn-format"
	hrnSuggestedFix = "Check HRN format: hrn:sentra:service:region:account:resource-type/resource-id"
)

var hrnLiteralRe = regexp.MustCompile(`"(hrn:[^"]+)"`)

// serviceResourceTypes is the compatibility matrix between services and
// the resource types they own. The system service may reference
// cross-domain resources.
var serviceResourceTypes = map[string][]string{
	"iam":          {"user", "policy", "api-key", "service-account"},
	"organization": {"organization", "team", "membership"},
	"artifact":     {"repository", "physical-artifact", "package-version", "artifact-metadata"},
	"config":       {"configuration", "config-template", "config-version"},
	"events":       {"event", "event-stream", "event-subscription"},
	"analytics":    {"metric", "dashboard", "report", "alert"},
	"supply-chain": {"attestation", "public-key", "scan-result", "vulnerability-definition", "vulnerability-occurrence", "provenance-record"},
	"storage":      {"storage-backend", "storage-bucket", "storage-policy"},
	"monitoring":   {"monitor", "health-check", "log-stream"},
	"system":       {"system", "user", "organization"},
}

// HrnValidator checks every HRN literal embedded in policy text against
// the supported service and resource-type sets.
type HrnValidator struct {
	services      map[string]struct{}
	resourceTypes map[string]struct{}
}

func NewHrnValidator() *HrnValidator {
	v := &HrnValidator{
		services:      make(map[string]struct{}),
		resourceTypes: make(map[string]struct{}),
	}
	for service, types := range serviceResourceTypes {
		v.services[service] = struct{}{}
		for _, t := range types {
			v.resourceTypes[t] = struct{}{}
		}
	}
	return v
}

// Validate extracts all HRN literals from policy text and returns one
// error per invalid literal. Text without HRNs yields no errors.
func (v *HrnValidator) Validate(content string) []model.ValidationError {
	var errs []model.ValidationError
	for _, hrn := range v.ExtractHrns(content) {
		if err := v.ValidateHrn(hrn); err != nil {
			errs = append(errs, model.ValidationError{
				Kind:         model.HrnError,
				Message:      err.Error(),
				SuggestedFix: hrnSuggestedFix,
				DocLink:      hrnDocLink,
			})
		}
	}
	return errs
}

// ExtractHrns returns every quoted HRN literal found in the text.
func (v *HrnValidator) ExtractHrns(content string) []string {
	var hrns []string
	for _, match := range hrnLiteralRe.FindAllStringSubmatch(content, -1) {
		hrns = append(hrns, match[1])
	}
	return hrns
}

// ValidateHrn checks a single HRN's structure, service, resource type
// and the service/resource-type pairing.
func (v *HrnValidator) ValidateHrn(hrn string) error {
	parts := strings.Split(hrn, ":")
	if len(parts) < 6 {
		return fmt.Errorf("HRN %q does not have enough components. Expected format: hrn:sentra:service:region:account:resource-type/resource-id", hrn)
	}
	if parts[0] != "hrn" {
		return fmt.Errorf("HRN %q must start with the %q scheme", hrn, "hrn")
	}

	service := parts[2]
	resourceType := strings.SplitN(parts[5], "/", 2)[0]

	if _, ok := v.services[service]; !ok {
		return fmt.Errorf("unsupported service %q in HRN %q. Supported services: %s",
			service, hrn, strings.Join(v.SupportedServices(), ", "))
	}
	if _, ok := v.resourceTypes[resourceType]; !ok {
		return fmt.Errorf("unsupported resource type %q in HRN %q. Supported types: %s",
			resourceType, hrn, strings.Join(v.SupportedResourceTypes(), ", "))
	}

	valid := serviceResourceTypes[service]
	for _, t := range valid {
		if t == resourceType {
			return nil
		}
	}
	return fmt.Errorf("invalid resource type %q for service %q in HRN %q. Valid types for %s: %s",
		resourceType, service, hrn, service, strings.Join(valid, ", "))
}

// SupportedServices returns the supported service names, sorted.
func (v *HrnValidator) SupportedServices() []string {
	services := make([]string, 0, len(v.services))
	for service := range v.services {
		services = append(services, service)
	}
	sort.Strings(services)
	return services
}

// SupportedResourceTypes returns the supported resource types, sorted.
func (v *HrnValidator) SupportedResourceTypes() []string {
	types := make([]string, 0, len(v.resourceTypes))
	for t := range v.resourceTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
