package e2e

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubeship/kubeship/internal/apps"
	"github.com/kubeship/kubeship/internal/config"
	"github.com/kubeship/kubeship/internal/env"
	"github.com/kubeship/kubeship/internal/k8s"
	"github.com/kubeship/kubeship/internal/report"
)

var _ = Describe("deployment flow", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		client k8s.Client
		cfg    *config.Config
	)

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Minute)
		cfg = config.Default()

		var err error
		client, err = k8s.NewForContext("", "")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		cancel()
	})

	It("reconciles the application manifests idempotently", func() {
		reconciler := apps.NewReconciler(client, cfg)
		Expect(reconciler.Reconcile(ctx)).To(Succeed())
		Expect(reconciler.Reconcile(ctx)).To(Succeed())

		deployments, err := client.ListDeployments(ctx, cfg.Namespace)
		Expect(err).NotTo(HaveOccurred())

		counts := map[string]int{}
		for _, d := range deployments {
			counts[d.Name]++
		}
		for _, app := range cfg.Apps {
			Expect(counts[app.Name]).To(Equal(1), "expected exactly one deployment for %s", app.Name)
		}

		for _, app := range cfg.Apps {
			svc, err := client.GetService(ctx, cfg.Namespace, app.ServiceName())
			Expect(err).NotTo(HaveOccurred())
			Expect(svc.Spec.Selector).To(HaveKeyWithValue("app", app.Name))
		}
	})

	It("reports a non-empty access host", func() {
		facts, err := env.Detect("")
		Expect(err).NotTo(HaveOccurred())
		Expect(facts.ExternalIP).NotTo(BeEmpty())

		collector, err := report.NewCollectorForConfig(client.RESTConfig(), facts, cfg)
		Expect(err).NotTo(HaveOccurred())

		access, err := collector.CollectAccess(ctx)
		if err != nil {
			Skip("ingress controller not installed: " + err.Error())
		}
		Expect(access.Host).NotTo(BeEmpty())
		Expect(access.Endpoints).To(HaveLen(len(cfg.Apps)))
	})
})
