package agendev_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	agendev "github.com/thesohamdatta/AgenDev-Studio"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/agent"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/dsl"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/validation"
)

// Example runs a one-step workflow with a custom agent.
func Example() {
	analyst := agent.NewFunc("Analyst", "Analysis", func(_ context.Context, observed []domain.Message) (string, error) {
		return "Goals: " + observed[0].Content + "\nRisks: none", nil
	}, agent.WithSubscription(domain.OriginTopic))

	wf := domain.NewWorkflow("demo", []domain.Step{
		{Name: "analyze", Agent: "Analyst", Validator: validation.ValidateBA},
	})

	eng, err := agendev.New(agendev.WithWorkflow(wf), agendev.WithAgents(analyst))
	if err != nil {
		log.Fatal(err)
	}

	res := eng.Run(context.Background(), "todo app")
	fmt.Println(res.Status)
	for _, m := range res.Log {
		fmt.Printf("%d [%s] %s\n", m.Seq, m.Topic, strings.ReplaceAll(m.Content, "\n", " | "))
	}
	// Output:
	// COMPLETED
	// 0 [User] todo app
	// 1 [Analysis] Goals: todo app | Risks: none
}

// ExampleEngine_Run_exhausted shows a step that never passes its validator.
func ExampleEngine_Run_exhausted() {
	drafter := agent.NewFunc("Drafter", "Draft", agent.Static("not good enough"))
	wf, err := dsl.New("").Step("draft").By("Drafter").Validate(validation.AlwaysFalse).Retries(2).Build()
	if err != nil {
		log.Fatal(err)
	}

	eng, err := agendev.New(agendev.WithWorkflow(wf), agendev.WithAgents(drafter))
	if err != nil {
		log.Fatal(err)
	}

	res := eng.Run(context.Background(), "seed")
	fmt.Println(res.Success, len(res.Log), res.Failure.Kind, res.Failure.Step)
	// Output:
	// false 4 step_exhausted draft
}
