package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	allocationPoliciesEnv = "ALLOCATION_POLICIES"
	airlineCheatsEnv      = "AIRLINE_CHEATS"
	postSwapEnv           = "POST_SWAP"
	swapConcurrencyEnv    = "SWAP_CONCURRENCY"

	defaultSwapConcurrency = 4
)

type CostMethod string

const (
	CostMethodRTC        CostMethod = "rtc"
	CostMethodLocal      CostMethod = "local"
	CostMethodReoptimize CostMethod = "reoptimize"
)

// CostStrategyConfig selects how a displacement is priced.
type CostStrategyConfig struct {
	Method   CostMethod
	Weighted bool
}

type PolicyName string

const (
	PolicyRBS          PolicyName = "RBS"
	PolicyCTOP         PolicyName = "CTOP"
	PolicyCmprRTC      PolicyName = "CMPR_RTC"
	PolicyCmprOneStep  PolicyName = "CMPR_ONESTEP"
	PolicyCmprWOneStep PolicyName = "CMPR_W_ONESTEP"
	PolicyCmprAssign   PolicyName = "CMPR_ASSIGN"
	PolicyCmprWAssign  PolicyName = "CMPR_WASSIGN"
	PolicySysOpt       PolicyName = "SYSOPT"
	PolicyWSysOpt      PolicyName = "WSYSOPT"
)

// AllPolicies lists every known policy in reporting order.
var AllPolicies = []PolicyName{
	PolicyRBS,
	PolicyCTOP,
	PolicyCmprRTC,
	PolicyCmprOneStep,
	PolicyCmprWOneStep,
	PolicyCmprAssign,
	PolicyCmprWAssign,
	PolicySysOpt,
	PolicyWSysOpt,
}

func (p PolicyName) Valid() bool {
	for _, known := range AllPolicies {
		if p == known {
			return true
		}
	}
	return false
}

type PolicyConfig struct {
	Policies        []PolicyName
	AirlineCheats   bool
	PostSwap        bool
	SwapConcurrency int
}

func LoadPolicyConfig() *PolicyConfig {
	policies := ParsePolicies(os.Getenv(allocationPoliciesEnv))
	if len(policies) == 0 {
		policies = append([]PolicyName(nil), AllPolicies...)
	}

	swapConcurrency := defaultSwapConcurrency
	if v := os.Getenv(swapConcurrencyEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			swapConcurrency = parsed
		}
	}

	return &PolicyConfig{
		Policies:        policies,
		AirlineCheats:   os.Getenv(airlineCheatsEnv) == "true",
		PostSwap:        os.Getenv(postSwapEnv) == "true",
		SwapConcurrency: swapConcurrency,
	}
}

// ParsePolicies reads a comma separated policy list. Unknown names and
// duplicates are skipped.
func ParsePolicies(raw string) []PolicyName {
	var policies []PolicyName
	seen := make(map[PolicyName]bool)

	for _, part := range strings.Split(raw, ",") {
		name := PolicyName(strings.ToUpper(strings.TrimSpace(part)))
		if name == "" || !name.Valid() || seen[name] {
			continue
		}
		seen[name] = true
		policies = append(policies, name)
	}

	return policies
}

func (c *PolicyConfig) Validate() error {
	if c == nil || len(c.Policies) == 0 {
		return ErrNoPolicies
	}
	for _, p := range c.Policies {
		if !p.Valid() {
			return ErrUnknownPolicy
		}
	}
	if c.SwapConcurrency <= 0 {
		return ErrInvalidSwapConcurrency
	}
	return nil
}
