package service

import (
	"fmt"
	"strings"

	"env-report/internal/pkg/azdevops"
)

// 门户地址推导涉及的约定变量名
const (
	varLoadBalancerDomain = "LoadBalancer.Domain"
	varElsaEnabled        = "Elsa.Enabled"
	varKubernetesHostname = "Kubernetes.HttpRoute.Hostname"
	varTenantName         = "Tenant.Name"
)

// derivePortalURL 根据环境名和变量组约定推导门户访问地址。
// 规则由上游环境的历史约定固定下来，不可配置。无法推导时返回nil。
func derivePortalURL(environmentName string, variables map[string]azdevops.Variable) *string {
	readVar := func(name string) string {
		v, ok := variables[name]
		if !ok || v.IsSecret {
			// 密文变量不参与推导
			return ""
		}
		return v.Value
	}

	elsaEnabled := strings.EqualFold(readVar(varElsaEnabled), "true")

	if !elsaEnabled {
		if domain := readVar(varLoadBalancerDomain); domain != "" {
			url := "https://" + domain
			return &url
		}
		return nil
	}

	if hostname := readVar(varKubernetesHostname); hostname != "" {
		url := "https://" + hostname
		return &url
	}

	tenant := strings.ToLower(readVar(varTenantName))
	if tenant == "" {
		return nil
	}

	url := fmt.Sprintf("https://%s-%s.flow.optalitix.net/%s/login", tenant, environmentTag(environmentName), tenant)
	return &url
}

// environmentTag 从环境名推导环境标签: 含uat→uat，含qa→dev，其余→dev
func environmentTag(environmentName string) string {
	name := strings.ToLower(environmentName)
	if strings.Contains(name, "uat") {
		return "uat"
	}
	return "dev"
}
