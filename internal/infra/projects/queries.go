package projects

// projectParts selects everything discovery needs from one project.
// Field nodes are polymorphic; __typename tells the decoder which fragment matched.
const projectParts = `
fragment ProjectParts on ProjectV2 {
  id
  number
  title
  url
  fields(first: 50) {
    nodes {
      __typename
      ... on ProjectV2Field { id name dataType }
      ... on ProjectV2SingleSelectField { id name dataType options { id name } }
      ... on ProjectV2IterationField { id name dataType }
    }
  }
  views(first: 20) {
    nodes { id name }
  }
}`

const repositoryProjectsQuery = `
query($owner: String!, $name: String!) {
  repository(owner: $owner, name: $name) {
    projectsV2(first: 20) { nodes { ...ProjectParts } }
  }
}` + projectParts

const organizationProjectsQuery = `
query($login: String!) {
  organization(login: $login) {
    projectsV2(first: 20) { nodes { ...ProjectParts } }
  }
}` + projectParts

const userProjectsQuery = `
query($login: String!) {
  user(login: $login) {
    projectsV2(first: 20) { nodes { ...ProjectParts } }
  }
}` + projectParts

const fieldOptionsQuery = `
query($fieldId: ID!) {
  node(id: $fieldId) {
    ... on ProjectV2SingleSelectField { options { id name } }
  }
}`

const addItemMutation = `
mutation($projectId: ID!, $contentId: ID!) {
  addProjectV2ItemById(input: {projectId: $projectId, contentId: $contentId}) {
    item { id }
  }
}`

const updateFieldMutation = `
mutation($projectId: ID!, $itemId: ID!, $fieldId: ID!, $value: ProjectV2FieldValue!) {
  updateProjectV2ItemFieldValue(input: {projectId: $projectId, itemId: $itemId, fieldId: $fieldId, value: $value}) {
    projectV2Item { id }
  }
}`
