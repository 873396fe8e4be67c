package tutorial

const tutorialFields = `
    id title description videoUrl videoUrlSigned duration appTarget
    thumbnailUrl thumbnailUrlSigned order isActive tags createdAt updatedAt
`

const getTutorialsQuery = `query GetTutorials {
  tutorials {` + tutorialFields + `}
}`

const getActiveTutorialsQuery = `query GetActiveTutorials {
  activeTutorials {` + tutorialFields + `}
}`

const getTutorialsByAppQuery = `query GetTutorialsByApp($appTarget: AppTarget!) {
  tutorialsByApp(appTarget: $appTarget) {` + tutorialFields + `}
}`

const getTutorialQuery = `query GetTutorial($id: String!) {
  tutorial(id: $id) {` + tutorialFields + `}
}`

const searchTutorialsQuery = `query SearchTutorials($query: String!) {
  searchTutorials(query: $query) {` + tutorialFields + `}
}`

const getTutorialsByTagsQuery = `query GetTutorialsByTags($tags: [String!]!) {
  tutorialsByTags(tags: $tags) {` + tutorialFields + `}
}`

const createTutorialMutation = `mutation CreateTutorial($input: CreateTutorialInput!, $jwt: String!) {
  createTutorial(input: $input, jwt: $jwt) {` + tutorialFields + `}
}`

const updateTutorialMutation = `mutation UpdateTutorial($tutorialId: String!, $input: UpdateTutorialInput!, $jwt: String!) {
  updateTutorial(tutorialId: $tutorialId, input: $input, jwt: $jwt) {` + tutorialFields + `}
}`

const deleteTutorialMutation = `mutation DeleteTutorial($tutorialId: String!, $jwt: String!) {
  deleteTutorial(tutorialId: $tutorialId, jwt: $jwt) { success message }
}`

const toggleTutorialActiveMutation = `mutation ToggleTutorialActive($tutorialId: String!, $jwt: String!) {
  toggleTutorialActive(tutorialId: $tutorialId, jwt: $jwt) {` + tutorialFields + `}
}`
