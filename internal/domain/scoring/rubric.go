package scoring

// Rubrics are five-point anchor sets for the three judged criteria.
// Track 1 is the open innovation track; track 2 is the applied tooling
// track. Unknown track numbers fall back to track 1.

const track1Rubric = `Judging rubric (score each criterion 1-5):

PROBLEM (how real and well-framed is the problem?)
1 - No discernible problem statement; the repo is a demo of a library.
2 - Problem is named but generic; no sense of who has it or why it matters.
3 - Clear problem with a plausible audience, lightly motivated.
4 - Sharply framed problem with evidence of user need and scope choices.
5 - Compelling, specific problem; the framing alone teaches the reader something.

SOLUTION (does the approach actually address the problem?)
1 - Solution is unrelated to the stated problem or entirely boilerplate.
2 - Partial approach; major pieces mocked or missing.
3 - Credible end-to-end approach with visible shortcuts.
4 - Thoughtful design; the core path works and tradeoffs are deliberate.
5 - Elegant, complete approach; a judge could adopt this tomorrow.

EXECUTION (quality and depth of what was actually built)
1 - Scaffolding only; little original code.
2 - Runs in the happy path; fragile everywhere else.
3 - Solid hackathon build: real features, rough edges.
4 - Polished build with tests or error handling beyond the minimum.
5 - Exceptional craft for the time window; coherent structure throughout.`

const track2Rubric = `Judging rubric (score each criterion 1-5):

PROBLEM (is this a genuine workflow or tooling pain?)
1 - No identifiable pain point; a toy without a user.
2 - Pain point asserted but not demonstrated.
3 - Recognizable developer/workflow pain with a concrete scenario.
4 - Well-evidenced pain with a before/after story.
5 - A pain every practitioner in the room has felt, framed precisely.

SOLUTION (does the tool integrate where the pain lives?)
1 - Tool does not address the stated workflow.
2 - Addresses it in isolation; no integration story.
3 - Works in the target workflow with manual steps.
4 - Integrates cleanly; adoption cost is visibly low.
5 - Feels native to the workflow; removal would be noticed immediately.

EXECUTION (robustness of the tool as built)
1 - Hard-coded demo paths only.
2 - Works on the authors' machine; brittle inputs.
3 - Handles common inputs; some validation and docs.
4 - Careful input handling, tests, and a usable README.
5 - Production-adjacent quality within hackathon constraints.`

// RubricForTrack returns the rubric text for a track number.
func RubricForTrack(track int) string {
	if track == 2 {
		return track2Rubric
	}
	return track1Rubric
}
