package question

import (
	"sort"
	"strings"
)

// GlossaryEntry explains one term referenced by questions.
type GlossaryEntry struct {
	Definition string   `json:"definition"`
	Analogy    string   `json:"analogy"`
	Features   []string `json:"features"`
}

// Glossary maps a term key to its entry.
type Glossary map[string]GlossaryEntry

// Terms returns the glossary keys in sorted order.
func (g Glossary) Terms() []string {
	terms := make([]string, 0, len(g))
	for k := range g {
		terms = append(terms, k)
	}
	sort.Strings(terms)
	return terms
}

// OtherCategory collects terms no keyword matched.
const OtherCategory = "其他"

var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{"存储", []string{"S3", "EBS", "EFS", "Glacier", "Storage Gateway", "DataSync", "Snowball", "FSx", "多部分上传", "传输加速", "跨区域复制", "生命周期", "版本控制", "快照", "卷", "桶", "对象"}},
	{"计算", []string{"EC2", "Lambda", "ECS", "EKS", "Fargate", "Batch", "Elastic Beanstalk", "Outposts", "实例", "函数", "容器", "Serverless"}},
	{"网络", []string{"VPC", "CloudFront", "Route 53", "API Gateway", "ALB", "NLB", "ELB", "Direct Connect", "VPN", "Endpoint", "对等连接", "子网", "路由表", "NAT", "负载均衡", "CDN", "DNS"}},
	{"数据库", []string{"RDS", "DynamoDB", "ElastiCache", "Aurora", "Redshift", "Neptune", "DocumentDB", "MemoryDB", "QLDB", "Timestream", "键值", "关系型"}},
	{"安全与身份", []string{"IAM", "KMS", "Cognito", "Secrets Manager", "Certificate Manager", "WAF", "Shield", "GuardDuty", "Inspector", "CloudTrail", "CloudWatch", "授权", "加密", "密钥", "审计", "防火墙"}},
	{"分析与大数据", []string{"Athena", "EMR", "Glue", "QuickSight", "Kinesis", "MSK", "Lake Formation", "ETL", "数据湖", "流式", "分析"}},
	{"应用集成", []string{"SQS", "SNS", "EventBridge", "Step Functions", "AppSync", "MQ", "消息", "队列", "事件", "工作流"}},
}

// CategoryOrder is the display order of glossary categories.
func CategoryOrder() []string {
	order := make([]string, 0, len(categoryKeywords)+1)
	for _, c := range categoryKeywords {
		order = append(order, c.name)
	}
	return append(order, OtherCategory)
}

// CategoryFor assigns a term to the first category whose keyword occurs
// in it, case-insensitively.
func CategoryFor(term string) string {
	upper := strings.ToUpper(term)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(upper, strings.ToUpper(kw)) {
				return c.name
			}
		}
	}
	return OtherCategory
}

// GroupTerms buckets terms by CategoryFor, keeping input order inside
// each bucket.
func GroupTerms(terms []string) map[string][]string {
	groups := make(map[string][]string)
	for _, t := range terms {
		c := CategoryFor(t)
		groups[c] = append(groups[c], t)
	}
	return groups
}
