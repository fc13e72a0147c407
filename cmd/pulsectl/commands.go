package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/controller"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
)

const dateFmt = time.DateOnly

// kycCmd shows the KYC dashboard
var kycCmd = &cobra.Command{
	Use:   "kyc",
	Short: "KYC reviews, metrics and risk distribution",
	RunE: func(cmd *cobra.Command, args []string) error {
		k := controller.NewKYC(newServices().KYC, logger)
		defer k.Close()
		if err := k.LoadAll(cmd.Context()); err != nil {
			return err
		}
		m, _ := k.Metrics.State().Get()
		d, _ := k.Distribution.State().Get()
		reviews := k.Filter(application.KYCFilter{
			Search:    kycSearch,
			Status:    entity.KYCStatus(kycStatus),
			RiskLevel: entity.RiskLevel(kycRisk),
		})
		if asJSON {
			return render(cmd, map[string]any{"metrics": m, "risk_distribution": d, "reviews": reviews}, nil, nil)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "total %d  approved %d  pending %d  rejected %d  high risk %d  expiring soon %d\n",
			m.Total, m.Approved, m.PendingReview, m.Rejected, m.HighRisk, m.ExpiringSoon)
		fmt.Fprintf(cmd.OutOrStdout(), "risk: high %d  medium %d  low %d\n\n", d.High, d.Medium, d.Low)
		return table(cmd.OutOrStdout(), []string{"ID", "INVESTOR", "RISK", "STATUS", "NEXT REVIEW", "DOCS"}, func(add func(...any)) {
			for _, r := range reviews {
				add(r.ID, r.Investor.Name, r.RiskLevel, r.Status, r.NextReviewDate.Format(dateFmt), len(r.Documents))
			}
		})
	},
}

var kycSearch, kycStatus, kycRisk string

// ddCmd lists due diligence items
var ddCmd = &cobra.Command{
	Use:   "dd",
	Short: "Due diligence pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := controller.NewDueDiligence(newServices().DueDiligence, logger)
		defer d.Close()
		if err := d.Load(cmd.Context()); err != nil {
			return err
		}
		return printDD(cmd, d.Filter(ddFilter))
	},
}

var ddFilter application.DueDiligenceFilter

// ddProgressCmd sets progress and prints the reloaded pipeline
var ddProgressCmd = &cobra.Command{
	Use:   "progress <id> <percent>",
	Short: "Set the progress of an item (clamped to 0-100)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("percent: %w", err)
		}
		d := controller.NewDueDiligence(newServices().DueDiligence, logger)
		defer d.Close()
		if _, err := d.UpdateProgress(cmd.Context(), args[0], p); err != nil {
			return err
		}
		return printDD(cmd, d.Items())
	},
}

func printDD(cmd *cobra.Command, items []entity.DueDiligenceItem) error {
	return render(cmd, items, []string{"ID", "COMPANY", "TYPE", "STATUS", "PRIORITY", "ASSIGNED", "DUE", "PROGRESS"}, func(add func(...any)) {
		for _, it := range items {
			add(it.ID, it.CompanyName, it.Type, it.Status, it.Priority, it.AssignedTo, it.DueDate.Format(dateFmt), fmt.Sprintf("%d%%", it.Progress))
		}
	})
}

// commsCmd lists communications with their statistics
var commsCmd = &cobra.Command{
	Use:   "comms",
	Short: "Investor communications and delivery statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := controller.NewCommunications(newServices().Communications, logger)
		defer c.Close()
		if err := c.Load(cmd.Context()); err != nil {
			return err
		}
		return printComms(cmd, c)
	},
}

// commsSendCmd sends a draft or scheduled communication
var commsSendCmd = &cobra.Command{
	Use:   "send <id>",
	Short: "Send a communication now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := controller.NewCommunications(newServices().Communications, logger)
		defer c.Close()
		if _, err := c.Send(cmd.Context(), args[0]); err != nil {
			return err
		}
		return printComms(cmd, c)
	},
}

func printComms(cmd *cobra.Command, c *controller.Communications) error {
	st := c.Stats()
	items := c.Items()
	if asJSON {
		return render(cmd, map[string]any{"stats": st, "communications": items}, nil, nil)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "total %d  sent %d  scheduled %d  drafts %d  read %.1f%%  delivered %.1f%%\n\n",
		st.Total, st.Sent, st.Scheduled, st.Drafts, st.ReadRate, st.DeliveryRate)
	return table(cmd.OutOrStdout(), []string{"ID", "TYPE", "STATUS", "SUBJECT", "RECIPIENTS"}, func(add func(...any)) {
		for _, m := range items {
			add(m.ID, m.Type, m.Status, m.Subject, len(m.Recipients))
		}
	})
}

// docsCmd lists the document library
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Document library",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := controller.NewDocuments(newServices().Documents, logger)
		defer d.Close()
		if err := d.Load(cmd.Context()); err != nil {
			return err
		}
		docs := d.Filter(docFilter)
		return render(cmd, docs, []string{"ID", "TITLE", "TYPE", "DATE", "INVESTOR", "PROJECT"}, func(add func(...any)) {
			for _, doc := range docs {
				add(doc.ID, doc.Title, doc.Type, doc.Date.Format(dateFmt), doc.InvestorID, doc.ProjectID)
			}
		})
	},
}

var docFilter application.DocumentFilter

// fundsCmd prints fund performance
var fundsCmd = &cobra.Command{
	Use:   "funds",
	Short: "Fund performance",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := controller.NewFunds(newServices().Funds, logger)
		defer f.Close()
		if err := f.Load(cmd.Context()); err != nil {
			return err
		}
		if err := f.Performance.Load(cmd.Context()); err != nil {
			return err
		}
		p, _ := f.Performance.State().Get()
		if asJSON {
			return render(cmd, map[string]any{"performance": p, "funds": f.Items()}, nil, nil)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d funds  AUM %.2f  weighted IRR %.2f%%  avg multiple %.2fx\n\n",
			p.FundCount, p.TotalAUM, p.WeightedIRR, p.AvgMultiple)
		return table(cmd.OutOrStdout(), []string{"ID", "NAME", "VINTAGE", "AUM", "IRR", "MULTIPLE"}, func(add func(...any)) {
			for _, fd := range f.Items() {
				add(fd.ID, fd.Name, fd.Vintage, fmt.Sprintf("%.2f", fd.AUM), fmt.Sprintf("%.2f%%", fd.IRR), fmt.Sprintf("%.2fx", fd.Multiple))
			}
		})
	},
}

// usersCmd lists back-office users
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Back-office users",
	RunE: func(cmd *cobra.Command, args []string) error {
		u := controller.NewUsers(newServices().Users, logger)
		defer u.Close()
		if err := u.Load(cmd.Context()); err != nil {
			return err
		}
		users := u.Filter(application.UserFilter{Search: userSearch, Role: entity.Role(userRole)})
		return render(cmd, users, []string{"ID", "NAME", "EMAIL", "ROLE", "STATUS", "INVESTOR ID"}, func(add func(...any)) {
			for _, us := range users {
				add(us.ID, us.Name, us.Email, us.Role, us.Status, us.InvestorID)
			}
		})
	},
}

var userSearch, userRole string

func init() {
	kycCmd.Flags().StringVar(&kycSearch, "search", "", "match investor name")
	kycCmd.Flags().StringVar(&kycStatus, "status", "", "Approved, PendingReview or Rejected")
	kycCmd.Flags().StringVar(&kycRisk, "risk", "", "Low, Medium or High")

	ddCmd.Flags().StringVar(&ddFilter.Search, "search", "", "match company or assignee")
	ddCmd.Flags().StringVar((*string)(&ddFilter.Status), "status", "", "NotStarted, InProgress, UnderReview or Completed")
	ddCmd.Flags().StringVar((*string)(&ddFilter.Priority), "priority", "", "High, Medium or Low")
	ddCmd.Flags().StringVar((*string)(&ddFilter.Type), "type", "", "InitialInvestment, FollowOn or Exit")
	ddCmd.Flags().StringVar(&ddFilter.AssignedTo, "assigned", "", "match assignee")
	ddCmd.AddCommand(ddProgressCmd)

	commsCmd.AddCommand(commsSendCmd)

	docsCmd.Flags().StringVar(&docFilter.Search, "search", "", "match title")
	docsCmd.Flags().StringVar(&docFilter.Type, "type", "", "document type")
	docsCmd.Flags().StringVar(&docFilter.InvestorID, "investor", "", "investor id")

	usersCmd.Flags().StringVar(&userSearch, "search", "", "match name or email")
	usersCmd.Flags().StringVar(&userRole, "role", "", "admin, manager, analyst, viewer or investor")
}
