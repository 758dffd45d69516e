package taxonomy

// KeywordTableVersion версия встроенной таблицы ключевых слов.
// Таблица — конфигурационные данные, а не алгоритм: при замене словаря
// версия меняется, сами алгоритмы классификации остаются прежними.
const KeywordTableVersion = "kw-2025.2"

// Фиксированный порядок приоритетов тем подразделов. Классификатор
// перебирает подразделы категории именно в этом порядке: первое
// совпадение по ключевым словам выигрывает.
const (
	TopicLeadership    = "leadership"
	TopicScope         = "scope"
	TopicOrgStructure  = "organizational-structure"
	TopicPolicy        = "policy"
	TopicRisk          = "risk"
	TopicResource      = "resource"
	TopicCompetence    = "competence"
	TopicAwareness     = "awareness"
	TopicCommunication = "communication"
	TopicDocumentation = "documentation"
	TopicPerformance   = "performance"
	TopicImprovement   = "improvement"
	TopicAsset         = "asset"
	TopicThirdParty    = "third-party"
	TopicProject       = "project"
	TopicGeneral       = "general"
)

// TopicPriorityOrder порядок тем от высшего приоритета к низшему.
// general всегда последний и служит корзиной по умолчанию.
var TopicPriorityOrder = []string{
	TopicLeadership,
	TopicScope,
	TopicOrgStructure,
	TopicPolicy,
	TopicRisk,
	TopicResource,
	TopicCompetence,
	TopicAwareness,
	TopicCommunication,
	TopicDocumentation,
	TopicPerformance,
	TopicImprovement,
	TopicAsset,
	TopicThirdParty,
	TopicProject,
	TopicGeneral,
}

// topicKeywords встроенный словарь ключевых слов по темам.
// Сопоставление регистронезависимое, выполняется по подстроке и по
// стемам слов (см. consolidation.RequirementClassifier).
var topicKeywords = map[string][]string{
	TopicLeadership:    {"leadership", "top management", "management commitment", "executive", "accountability", "governing body"},
	TopicScope:         {"scope", "boundaries", "applicability", "context of the organization", "interested parties"},
	TopicOrgStructure:  {"roles and responsibilities", "organizational structure", "segregation of duties", "authorities", "responsibilities"},
	TopicPolicy:        {"policy", "policies", "acceptable use"},
	TopicRisk:          {"risk", "assessment", "threat", "vulnerability", "risk treatment", "risk acceptance"},
	TopicResource:      {"resource", "resources", "budget", "funding", "infrastructure"},
	TopicCompetence:    {"competence", "training", "skills", "qualification", "certification"},
	TopicAwareness:     {"awareness", "security awareness", "education program"},
	TopicCommunication: {"communication", "reporting", "notification", "notify", "escalation", "contact with authorities"},
	TopicDocumentation: {"documented information", "documentation", "records", "procedures", "document control"},
	TopicPerformance:   {"monitoring", "measurement", "internal audit", "audit", "performance evaluation", "metrics", "management review", "logging"},
	TopicImprovement:   {"improvement", "corrective action", "nonconformity", "continual improvement", "lessons learned"},
	TopicAsset:         {"asset", "inventory", "classification of information", "media", "information asset"},
	TopicThirdParty:    {"supplier", "third party", "third-party", "vendor", "outsourcing", "service provider", "cloud service"},
	TopicProject:       {"project", "change management", "secure development", "system acquisition"},
	TopicGeneral:       {},
}

// topicHeadings встроенные заголовки подразделов по темам
var topicHeadings = map[string]string{
	TopicLeadership:    "Leadership and management commitment",
	TopicScope:         "Scope and organizational context",
	TopicOrgStructure:  "Organizational structure, roles and responsibilities",
	TopicPolicy:        "Policies",
	TopicRisk:          "Risk assessment and treatment",
	TopicResource:      "Resources",
	TopicCompetence:    "Competence",
	TopicAwareness:     "Awareness",
	TopicCommunication: "Communication and reporting",
	TopicDocumentation: "Documented information",
	TopicPerformance:   "Performance evaluation and monitoring",
	TopicImprovement:   "Improvement",
	TopicAsset:         "Asset management",
	TopicThirdParty:    "Third-party and supplier relationships",
	TopicProject:       "Projects and secure development",
	TopicGeneral:       "General requirements",
}

// topicPriority возвращает ранг темы в TopicPriorityOrder (0 — высший)
func topicPriority(topic string) int {
	for i, t := range TopicPriorityOrder {
		if t == topic {
			return i
		}
	}
	return len(TopicPriorityOrder)
}

// defaultCategoryLayout состав категорий по умолчанию: id, имя и темы
// подразделов в порядке букв a, b, c, ...
var defaultCategoryLayout = []struct {
	id     string
	name   string
	topics []string
}{
	{
		id:   "governance",
		name: "Governance and Leadership",
		topics: []string{
			TopicLeadership, TopicScope, TopicOrgStructure, TopicPolicy, TopicGeneral,
		},
	},
	{
		id:   "risk-management",
		name: "Risk Management",
		topics: []string{
			TopicRisk, TopicAsset, TopicThirdParty, TopicProject, TopicGeneral,
		},
	},
	{
		id:   "support",
		name: "Support and Resources",
		topics: []string{
			TopicResource, TopicCompetence, TopicAwareness, TopicCommunication, TopicDocumentation, TopicGeneral,
		},
	},
	{
		id:   "evaluation",
		name: "Performance Evaluation and Improvement",
		topics: []string{
			TopicPerformance, TopicImprovement, TopicGeneral,
		},
	},
}

// DefaultCategories возвращает встроенный набор категорий с шаблонами
// подразделов. Используется как деградация при недоступности хранилища
// конфигурации: сервис продолжает работу на встроенных шаблонах, факт
// деградации логируется.
func DefaultCategories() []CanonicalCategory {
	categories := make([]CanonicalCategory, 0, len(defaultCategoryLayout))
	for _, layout := range defaultCategoryLayout {
		category := CanonicalCategory{
			ID:          layout.id,
			Name:        layout.name,
			Subsections: make([]SubsectionTemplate, 0, len(layout.topics)),
		}
		for i, topic := range layout.topics {
			keywords := make([]string, len(topicKeywords[topic]))
			copy(keywords, topicKeywords[topic])
			category.Subsections = append(category.Subsections, SubsectionTemplate{
				CategoryID:   layout.id,
				Letter:       string(rune('a' + i)),
				HeadingText:  topicHeadings[topic],
				Topic:        topic,
				Keywords:     keywords,
				PriorityRank: topicPriority(topic),
			})
		}
		categories = append(categories, category)
	}
	return categories
}
