package database

import (
	"fmt"
	"log"

	"complianceserver/frameworks"
	"complianceserver/taxonomy"
)

// SeedDefaults загружает встроенную таксономию и стартовый набор
// фреймворков, если база пуста. Повторные вызовы ничего не меняют.
func (db *DB) SeedDefaults() error {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM standards_library`).Scan(&count); err != nil {
		return fmt.Errorf("failed to check standards_library: %w", err)
	}
	if count > 0 {
		return nil
	}

	log.Println("[Seed] Empty database, loading built-in taxonomy and framework seed data")

	if err := db.SaveCategories(taxonomy.DefaultCategories()); err != nil {
		return fmt.Errorf("failed to seed taxonomy: %w", err)
	}

	for _, fw := range seedFrameworks {
		if err := db.InsertFramework(fw.framework); err != nil {
			return err
		}
		for i, req := range fw.requirements {
			req.FrameworkID = fw.framework.ID
			req.FrameworkName = fw.framework.Name + " " + fw.framework.Version
			if req.ID == "" {
				req.ID = fw.framework.ID + ":" + req.Code
			}
			if err := db.InsertRequirement(req, i); err != nil {
				return err
			}
		}
	}
	return nil
}

// Стартовый набор фреймворков. Состав повторяет standards_library
// исходной системы: ISO/IEC 27001, ISO/IEC 27002 и CIS Controls с
// уровневыми профилями IG1/IG2/IG3.
var seedFrameworks = []struct {
	framework    frameworks.Framework
	requirements []frameworks.FrameworkRequirement
}{
	{
		framework: frameworks.Framework{ID: "iso-27001", Name: "ISO/IEC 27001", Version: "2022"},
		requirements: []frameworks.FrameworkRequirement{
			{Code: "4.3", Title: "Determining the scope of the information security management system", Description: "The organization shall determine the boundaries and applicability of the information security management system to establish its scope."},
			{Code: "5.1", Title: "Leadership and commitment", Description: "Top management shall demonstrate leadership and commitment with respect to the information security management system."},
			{Code: "5.2", Title: "Policy", Description: "Top management shall establish an information security policy that is appropriate to the purpose of the organization."},
			{Code: "5.3", Title: "Organizational roles, responsibilities and authorities", Description: "Top management shall ensure that the responsibilities and authorities for roles relevant to information security are assigned and communicated."},
			{Code: "6.1.2", Title: "Information security risk assessment", Description: "The organization shall define and apply an information security risk assessment process and retain documented information about it."},
			{Code: "7.2", Title: "Competence", Description: "The organization shall determine the necessary competence of persons doing work under its control that affects its information security performance."},
			{Code: "7.3", Title: "Awareness", Description: "Persons doing work under the organization's control shall be aware of the information security policy and their contribution to the effectiveness of the management system."},
			{Code: "7.4", Title: "Communication", Description: "The organization shall determine the need for internal and external communications relevant to the information security management system."},
			{Code: "7.5", Title: "Documented information", Description: "The organization's information security management system shall include documented information required by this document."},
			{Code: "9.2", Title: "Internal audit", Description: "The organization shall conduct internal audits at planned intervals to provide information on whether the information security management system conforms to requirements."},
			{Code: "10.1", Title: "Continual improvement", Description: "The organization shall continually improve the suitability, adequacy and effectiveness of the information security management system."},
		},
	},
	{
		framework: frameworks.Framework{ID: "iso-27002", Name: "ISO/IEC 27002", Version: "2022"},
		requirements: []frameworks.FrameworkRequirement{
			{Code: "5.1", Title: "Policies for information security", Description: "Information security policy and topic-specific policies should be defined, approved by management, published and reviewed at planned intervals."},
			{Code: "5.9", Title: "Inventory of information and other associated assets", Description: "An inventory of information and other associated assets, including owners, should be developed and maintained."},
			{Code: "5.19", Title: "Information security in supplier relationships", Description: "Processes and procedures should be defined and implemented to manage the information security risks associated with the use of supplier's products or services."},
			{Code: "5.24", Title: "Information security incident management planning and preparation", Description: "The organization should plan and prepare for managing information security incidents by defining, establishing and communicating incident management processes, roles and responsibilities."},
			{Code: "6.3", Title: "Information security awareness, education and training", Description: "Personnel of the organization and relevant interested parties should receive appropriate information security awareness, education and training."},
			{Code: "8.15", Title: "Logging", Description: "Logs that record activities, exceptions, faults and other relevant events should be produced, stored, protected and analysed."},
			{Code: "8.25", Title: "Secure development life cycle", Description: "Rules for the secure development of software and systems should be established and applied."},
		},
	},
	{
		framework: frameworks.Framework{ID: "cis-controls", Name: "CIS Controls", Version: "v8", Tiered: true},
		requirements: []frameworks.FrameworkRequirement{
			{Code: "1.1", Title: "Establish and Maintain Detailed Enterprise Asset Inventory", Description: "Establish and maintain an accurate, detailed and up-to-date inventory of all enterprise assets. Review and update the inventory of all enterprise assets bi-annually, or more frequently.", Tier: frameworks.TierIG1},
			{Code: "4.1", Title: "Establish and Maintain a Secure Configuration Process", Description: "Establish and maintain a secure configuration process for enterprise assets and software. Review and update documentation annually.", Tier: frameworks.TierIG1},
			{Code: "14.1", Title: "Establish and Maintain a Security Awareness Program", Description: "Establish and maintain a security awareness program to educate workforce members on how to interact with enterprise assets and data in a secure manner. Review and update content annually.", Tier: frameworks.TierIG1},
			{Code: "15.1", Title: "Establish and Maintain an Inventory of Service Providers", Description: "Establish and maintain an inventory of service providers. Review and update the inventory annually, or when significant enterprise changes occur.", Tier: frameworks.TierIG1},
			{Code: "8.2", Title: "Collect Audit Logs", Description: "Collect audit logs. Ensure that logging, per the enterprise's audit log management process, has been enabled across enterprise assets.", Tier: frameworks.TierIG1},
			{Code: "3.14", Title: "Log Sensitive Data Access", Description: "Log sensitive data access, including modification and disposal.", Tier: frameworks.TierIG3},
			{Code: "16.14", Title: "Conduct Threat Modeling", Description: "Conduct threat modeling. Threat modeling is the process of identifying and addressing application security design flaws within a design, before code is created.", Tier: frameworks.TierIG3},
			{Code: "17.4", Title: "Establish and Maintain an Incident Response Process", Description: "Establish and maintain an incident response process that addresses roles and responsibilities, compliance requirements, and a communication plan. Review annually, or when significant enterprise changes occur.", Tier: frameworks.TierIG2},
		},
	},
}
