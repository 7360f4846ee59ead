package storefront

// Query documents for the storefront API. Only the fields the core
// consumes are requested: product id/handle/title/description/options/
// variants/images, variant id/title/price/availableForSale/
// selectedOptions, image url/altText.

const catalogQuery = `
query Catalog($first: Int!) {
  products(first: $first) {
    edges {
      node {
        id
        handle
        title
        description
        options {
          name
          values
        }
        images(first: 10) {
          edges {
            node {
              url
              altText
            }
          }
        }
        variants(first: 50) {
          edges {
            node {
              id
              title
              availableForSale
              price {
                amount
                currencyCode
              }
              selectedOptions {
                name
                value
              }
            }
          }
        }
      }
    }
  }
}`

const productByHandleQuery = `
query ProductByHandle($handle: String!) {
  productByHandle(handle: $handle) {
    id
    handle
    title
    description
    options {
      name
      values
    }
    images(first: 10) {
      edges {
        node {
          url
          altText
        }
      }
    }
    variants(first: 50) {
      edges {
        node {
          id
          title
          availableForSale
          price {
            amount
            currencyCode
          }
          selectedOptions {
            name
            value
          }
        }
      }
    }
  }
}`
