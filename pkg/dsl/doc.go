/*
Package dsl builds workflows in Go instead of YAML or JSON files.

Example usage:

	wf, err := dsl.New("mvp").
		Step("understand").By("Guide").Validate(validation.ValidateSimplicity).Retries(1).
		Step("build").By("Builder").Validate(validation.ValidateCode).
		Build()
	if err != nil {
		return err
	}
	eng, err := agendev.New(agendev.WithWorkflow(wf), agendev.WithStandardAgents())

Build applies the same checks as loading a workflow file.
*/
package dsl
